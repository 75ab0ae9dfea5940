package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const msgInvalidOrder = "Order is out of range"

// reorderConcurrency bounds the number of in-flight order writes per request.
const reorderConcurrency = 8

// TodoInput is the creation form. DueDate is "YYYY-MM-DD" or RFC 3339.
type TodoInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// TodoPatch carries the fields supplied by an update; nil means unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Order       *int
}

// TodoService implements owner-scoped todo operations. Every method takes
// the caller's user id; todos of other users behave as if they did not exist.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

// List returns the caller's todos in display order.
func (s *TodoService) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	todos, err := s.repomanager.Todos(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list todos: %v", common.ErrorInternal, err)
	}
	return todos, nil
}

// Create validates in and appends a todo after the caller's last one.
func (s *TodoService) Create(ctx context.Context, userID string, in TodoInput) (*models.Todo, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || strings.TrimSpace(in.DueDate) == "" {
		return nil, common.NewValidationError("Title, description, and due date are required")
	}

	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityLow
	if in.Priority != "" {
		priority, err = parsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
	}

	todo := &models.Todo{
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     due,
		Priority:    priority,
	}

	var created *models.Todo
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)
		order, err := repo.NextOrder(ctx, userID)
		if err != nil {
			return fmt.Errorf("error computing order: %w", err)
		}
		todo.Order = order
		created, err = repo.Create(ctx, todo)
		if err != nil {
			return fmt.Errorf("error creating todo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return created, nil
}

// Get returns common.ErrorNotFound for malformed ids, unknown ids and ids
// owned by someone else alike.
func (s *TodoService) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	todo, err := s.repomanager.Todos(s.db).Get(ctx, id, userID)
	if err != nil {
		return nil, wrapRepoErr("get todo", err)
	}
	return todo, nil
}

// Update applies the supplied fields. An empty patch only refreshes the
// update timestamp.
func (s *TodoService) Update(ctx context.Context, userID, id string, p TodoPatch) (*models.Todo, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, common.ErrorNotFound
	}

	upd, err := p.toUpdate()
	if err != nil {
		return nil, err
	}

	todo, err := s.repomanager.Todos(s.db).Update(ctx, id, userID, upd)
	if err != nil {
		return nil, wrapRepoErr("update todo", err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Todos(s.db).Delete(ctx, id, userID); err != nil {
		return wrapRepoErr("delete todo", err)
	}
	return nil
}

// Reorder writes each order change as an independent owner-scoped update.
// The batch is not atomic: on failure some changes may already be applied.
// Changes naming todos the caller does not own are skipped silently.
// An out-of-range order rejects the whole batch before anything is written.
// On success the freshly listed todos are returned.
func (s *TodoService) Reorder(ctx context.Context, userID string, changes []models.OrderChange) ([]*models.Todo, error) {
	valid := make([]models.OrderChange, 0, len(changes))
	for _, c := range changes {
		if !models.ValidOrder(c.Order) {
			return nil, common.NewValidationError(msgInvalidOrder)
		}
		id, ok := canonicalID(c.ID)
		if !ok {
			continue
		}
		valid = append(valid, models.OrderChange{ID: id, Order: c.Order})
	}

	repo := s.repomanager.Todos(s.db)

	var g errgroup.Group
	g.SetLimit(reorderConcurrency)
	for _, c := range valid {
		g.Go(func() error {
			return repo.UpdateOrder(ctx, c.ID, userID, c.Order)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: reorder todos: %v", common.ErrorInternal, err)
	}

	return s.List(ctx, userID)
}

// ParseDueDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp, which is
// truncated to its calendar date.
func ParseDueDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if d, err := time.Parse(models.DueDateLayout, v); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		y, m, d := ts.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, common.NewValidationError("Invalid due date")
}

func parsePriority(v string) (models.Priority, error) {
	p := models.Priority(v)
	if !p.Valid() {
		return "", common.NewValidationError("Priority must be one of Extreme, Moderate, Low")
	}
	return p, nil
}

func (p TodoPatch) toUpdate() (models.TodoUpdate, error) {
	var upd models.TodoUpdate

	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		if v == "" {
			return upd, common.NewValidationError("Title cannot be empty")
		}
		upd.Title = &v
	}
	if p.Description != nil {
		v := strings.TrimSpace(*p.Description)
		if v == "" {
			return upd, common.NewValidationError("Description cannot be empty")
		}
		upd.Description = &v
	}
	if p.DueDate != nil {
		d, err := ParseDueDate(*p.DueDate)
		if err != nil {
			return upd, err
		}
		upd.DueDate = &d
	}
	if p.Priority != nil {
		pr, err := parsePriority(*p.Priority)
		if err != nil {
			return upd, err
		}
		upd.Priority = &pr
	}
	if p.Order != nil {
		if !models.ValidOrder(*p.Order) {
			return upd, common.NewValidationError(msgInvalidOrder)
		}
		upd.Order = p.Order
	}

	return upd, nil
}

// canonicalID returns id in the hyphenated lowercase form PostgreSQL accepts.
// uuid.Parse also takes the urn form, which PostgreSQL rejects.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
