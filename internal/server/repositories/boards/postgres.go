package boards

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkarlsson/boardauth/internal/common"
	"github.com/mkarlsson/boardauth/internal/dbx"
	"github.com/mkarlsson/boardauth/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new board row and returns it with ID and updated_at set.
func (r *PostgresRepository) Create(ctx context.Context, board *models.Board) (*models.Board, error) {
	query := `
		INSERT INTO boards (id, title)
		VALUES ($1, $2)
		RETURNING updated_at
	`
	board.ID = uuid.NewString()
	if err := r.db.QueryRowContext(ctx, query, board.ID, board.Title).Scan(&board.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return board, nil
}

// CreateMembership inserts a membership row. The (user_id, board_id)
// primary key turns a duplicate insert into common.ErrorConflict.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO memberships (user_id, board_id, role)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, m.UserID, m.BoardID, m.Role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListIDsByUser returns the board IDs the user is a member of.
func (r *PostgresRepository) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT board_id
		FROM memberships
		WHERE user_id = $1
		ORDER BY board_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByUser returns summaries of the user's boards, newest update first.
// This always reflects live membership state, never a token snapshot.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Board, error) {
	query := `
		SELECT b.id, b.title, b.updated_at
		FROM boards b
		JOIN memberships m ON m.board_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Board{}
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Title, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
