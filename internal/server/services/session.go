// Package services contains server-side business logic. This file implements
// SessionService, which handles registration, login, refreshing access
// tokens against server-stored refresh tokens, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkarlsson/boardauth/internal/common"
	"github.com/mkarlsson/boardauth/internal/dbx"
	"github.com/mkarlsson/boardauth/internal/server/auth"
	"github.com/mkarlsson/boardauth/internal/server/config"
	"github.com/mkarlsson/boardauth/internal/server/models"
	"github.com/mkarlsson/boardauth/internal/server/password"
	"github.com/mkarlsson/boardauth/internal/server/repositories/repomanager"
)

// refreshTokenBytes is the entropy of a refresh token value before hex
// encoding. 64 bytes keeps the value well past the unguessability bar and
// makes collisions a non-concern; the store still enforces uniqueness.
const refreshTokenBytes = 64

// LoginResult bundles everything a successful login returns: a short-lived
// access token, a long-lived refresh token, the user summary, and the board
// IDs snapshotted into the access token.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
	BoardIDs     []string
}

// SessionService provides authentication-related operations:
//   - Register: create a user with a default board and owner membership
//   - Login: verify credentials and mint an access/refresh token pair
//   - Refresh: exchange a stored refresh token for a new access token
//   - Logout: revoke a refresh token
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       password.Hasher
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories, the
// password hasher, and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, h password.Hasher, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		hasher:                       h,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user together with a default board titled after the
// username and an owner membership linking them. The three inserts run in one
// transaction so a failed registration leaves no partial state.
// A taken username yields common.ErrorConflict.
func (s *SessionService) Register(ctx context.Context, username, pass string) (*models.User, error) {
	if username == "" || pass == "" {
		return nil, common.ErrorValidation
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", common.ErrorInternal)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created

		board, err := s.repomanager.Boards(tx).Create(ctx, &models.Board{Title: username})
		if err != nil {
			return err
		}

		return s.repomanager.Boards(tx).CreateMembership(ctx, &models.Membership{
			UserID:  user.ID,
			BoardID: board.ID,
			Role:    models.RoleOwner,
		})
	}); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the username/password pair and, on success, returns a new
// access token (with the caller's current board IDs embedded), a freshly
// stored refresh token, and the user summary. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	if username == "" || pass == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	boardIDs, err := s.repomanager.Boards(s.db).ListIDsByUser(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	accessToken, err := s.generateAccessToken(user, boardIDs)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if _, err := s.repomanager.RefreshTokens(s.db).Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		BoardIDs:     boardIDs,
	}, nil
}

// Refresh validates a stored refresh token and mints a new access token with
// the owner's current board IDs, so stale snapshots self-heal on refresh.
// The refresh token itself is not rotated; the same value stays valid until
// logout or expiry. An expired token is deleted on use and yields
// common.ErrRefreshTokenExpired.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", common.ErrorValidation
	}

	repo := s.repomanager.RefreshTokens(s.db)

	row, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching refresh token: %w", err)
	}

	if row.ExpiresAt.Before(time.Now()) {
		// Lazy cleanup: expired rows are removed when someone tries to
		// use them. Best effort; the row is unusable either way.
		_ = repo.DeleteByID(ctx, row.ID)
		return "", common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = repo.DeleteByID(ctx, row.ID)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	boardIDs, err := s.repomanager.Boards(s.db).ListIDsByUser(ctx, user.ID)
	if err != nil {
		return "", common.ErrorInternal
	}

	accessToken, err := s.generateAccessToken(user, boardIDs)
	if err != nil {
		return "", common.ErrorInternal
	}

	return accessToken, nil
}

// Logout revokes a refresh token by deleting every row with that value.
// Revoking an unknown token succeeds: logout is unconditionally idempotent.
// Already-issued access tokens stay valid until their own expiry.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return common.ErrorValidation
	}

	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *SessionService) generateAccessToken(user *models.User, boardIDs []string) (string, error) {
	return auth.GenerateToken(user.ID, user.Username, boardIDs, s.jwtSecret, s.accessTokenValidityDuration)
}
