// Package users declares and implements the credential store: persistence of
// user accounts and their profile attributes.
package users

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository defines the operations on user records.
type Repository interface {
	// Create inserts a user and fills its ID and timestamps. A duplicate email
	// (case-insensitive) yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail looks up an account by its lower-cased email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns common.ErrorNotFound when the id is unknown.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile applies the non-nil fields of upd and returns the updated row.
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)

	// SetProfilePicture stores the object key of the user's picture.
	SetProfilePicture(ctx context.Context, id string, key string) error
}
