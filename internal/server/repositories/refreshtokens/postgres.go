package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsson/boardauth/internal/common"
	"github.com/mkarlsson/boardauth/internal/dbx"
	"github.com/mkarlsson/boardauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token for userID. Expiry is computed here as
// issued_at+validity so the invariant expires_at = issued_at + TTL holds by
// construction. The unique index on token guards against value collisions.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	row := &models.RefreshToken{
		ID:       uuid.NewString(),
		UserID:   userID,
		Token:    token,
		IssuedAt: time.Now(),
	}
	row.ExpiresAt = row.IssuedAt.Add(validity)

	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.UserID, row.Token, row.IssuedAt, row.ExpiresAt); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return row, nil
}

// Find returns the refresh token row for the given token value.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, issued_at, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	row := &models.RefreshToken{Token: token}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(
		&row.ID, &row.UserID, &row.IssuedAt, &row.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

// Delete removes refresh tokens by value. Removing zero rows is fine, which
// makes logout idempotent under concurrent calls for the same token.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByID removes a single refresh token row by ID.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
