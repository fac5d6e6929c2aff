// Package boards declares the server-side repository contract for boards
// and the memberships that grant users access to them.
package boards

import (
	"context"

	"github.com/mkarlsson/boardauth/internal/server/models"
)

// Repository defines operations for boards and memberships.
type Repository interface {
	// Create persists a new board and returns it with its generated ID.
	Create(ctx context.Context, board *models.Board) (*models.Board, error)

	// CreateMembership links a user to a board with the given role.
	// A duplicate (user, board) pair yields common.ErrorConflict.
	CreateMembership(ctx context.Context, m *models.Membership) error

	// ListIDsByUser returns the IDs of all boards the user holds a
	// membership to, ordered by board ID for stable token snapshots.
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)

	// ListByUser returns board summaries for all boards the user may
	// access, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]*models.Board, error)
}
