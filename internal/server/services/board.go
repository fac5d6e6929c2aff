package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkarlsson/boardauth/internal/server/models"
	"github.com/mkarlsson/boardauth/internal/server/repositories/repomanager"
)

// BoardService resolves which boards an authenticated caller may see.
type BoardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewBoardService constructs a BoardService using repositories.
func NewBoardService(db *sql.DB, m repomanager.RepositoryManager) *BoardService {
	return &BoardService{db: db, repomanager: m}
}

// ListBoards returns summaries of the user's boards ordered most recently
// updated first. It always queries live membership state rather than the
// board IDs embedded in the caller's access token, so the listing stays
// authoritative even when the token snapshot is stale.
func (s *BoardService) ListBoards(ctx context.Context, userID string) ([]*models.Board, error) {
	result, err := s.repomanager.Boards(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing boards: %w", err)
	}
	return result, nil
}
