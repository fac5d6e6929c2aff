// Package users declares the server-side repository contract for user
// identity records.
package users

import (
	"context"

	"github.com/mkarlsson/boardauth/internal/server/models"
)

// Repository defines operations for creating and looking up users.
type Repository interface {
	// Create persists a new user and returns it with its generated ID.
	// A duplicate username yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username, or
	// common.ErrorNotFound when absent. Matching is case-sensitive.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given ID, or common.ErrorNotFound
	// when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
