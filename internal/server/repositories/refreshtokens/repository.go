// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/mkarlsson/boardauth/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of
	// now+validity and returns the persisted record.
	Create(ctx context.Context, userID string, token string, validity time.Duration) (*models.RefreshToken, error)

	// Find looks up a refresh token by its opaque token value.
	// Returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes all refresh tokens with the given value. Deleting a
	// non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByID removes a single refresh token row by its ID.
	DeleteByID(ctx context.Context, id string) error
}
