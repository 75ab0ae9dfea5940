package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

const todoColumns = `id, user_id, title, description, due_date, priority, sort_order, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	t := &models.Todo{}
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.Order, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func scanOne(row rowScanner) (*models.Todo, error) {
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE user_id = $1
		ORDER BY sort_order ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) NextOrder(ctx context.Context, userID string) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM todos WHERE user_id = $1`

	var order int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&order); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todos (user_id, title, description, due_date, priority, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		todo.UserID, todo.Title, todo.Description, todo.DueDate, string(todo.Priority), todo.Order).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, id, userID string, upd models.TodoUpdate) (*models.Todo, error) {
	query :=
		`UPDATE todos SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			due_date = COALESCE($5, due_date),
			priority = COALESCE($6, priority),
			sort_order = COALESCE($7, sort_order),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + todoColumns

	var priority *string
	if upd.Priority != nil {
		p := string(*upd.Priority)
		priority = &p
	}

	row := r.db.QueryRowContext(ctx, query, id, userID,
		upd.Title, upd.Description, upd.DueDate, priority, upd.Order)
	return scanOne(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateOrder(ctx context.Context, id, userID string, order int) error {
	query := `UPDATE todos SET sort_order = $3, updated_at = now() WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, userID, order); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
