// Package todos declares and implements the todo store. Every operation that
// addresses a single todo takes both the todo id and the owner id.
package todos

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository defines owner-scoped operations on todo records.
type Repository interface {
	// List returns the owner's todos by ascending order, newest first among equal orders.
	List(ctx context.Context, userID string) ([]*models.Todo, error)

	// NextOrder returns the owner's current maximum order plus one (1 when empty).
	NextOrder(ctx context.Context, userID string) (int, error)

	// Create inserts todo and fills its ID and timestamps.
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	// Get returns common.ErrorNotFound unless id exists and belongs to userID.
	Get(ctx context.Context, id, userID string) (*models.Todo, error)

	// Update applies the non-nil fields of upd; common.ErrorNotFound when no owned row matched.
	Update(ctx context.Context, id, userID string, upd models.TodoUpdate) (*models.Todo, error)

	// Delete removes the owned row; common.ErrorNotFound when nothing was deleted.
	Delete(ctx context.Context, id, userID string) error

	// UpdateOrder sets the order of one owned todo. Matching no row is not an error.
	UpdateOrder(ctx context.Context, id, userID string, order int) error
}
