package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkarlsson/boardauth/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type boardSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleRegister creates a user with a default board.
// POST /api/auth/register
func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	user, err := s.session.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		case errors.Is(err, common.ErrorConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		default:
			s.logger.Error(c.Request.Context(), "registration failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "username", user.Username)
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// handleLogin verifies credentials and issues an access/refresh token pair.
// The access token is returned under both "token" and "accessToken" for
// client compatibility.
// POST /api/auth/login
func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	res, err := s.session.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		case errors.Is(err, common.ErrorUnauthorized):
			// Unknown username and wrong password are reported identically.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		default:
			s.logger.Error(c.Request.Context(), "login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        res.AccessToken,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"user": gin.H{
			"id":       res.User.ID,
			"username": res.User.Username,
		},
		"boardIds": res.BoardIDs,
	})
}

// refreshTokenFromRequest takes the refresh token from the Authorization
// header when present, otherwise from the JSON body.
func refreshTokenFromRequest(c *gin.Context) string {
	if token, err := bearerToken(c); err == nil {
		return token
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

// handleRefresh exchanges a stored refresh token for a new access token.
// POST /api/auth/refresh
func (s *HTTPServer) handleRefresh(c *gin.Context) {
	refreshToken := refreshTokenFromRequest(c)

	accessToken, err := s.session.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token is required"})
		case errors.Is(err, common.ErrRefreshTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired"})
		case errors.Is(err, common.ErrorUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		default:
			s.logger.Error(c.Request.Context(), "refresh failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       accessToken,
		"accessToken": accessToken,
	})
}

// handleLogout revokes a refresh token. Revoking an unknown token still
// returns 204.
// DELETE /api/auth/refresh
func (s *HTTPServer) handleLogout(c *gin.Context) {
	refreshToken := refreshTokenFromRequest(c)

	if err := s.session.Logout(c.Request.Context(), refreshToken); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token is required"})
			return
		}
		s.logger.Error(c.Request.Context(), "logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// handleListBoards returns the caller's boards, most recently updated first.
// GET /api/boards
func (s *HTTPServer) handleListBoards(c *gin.Context) {
	userID := c.GetString(ctxUserIDKey)

	boards, err := s.boards.ListBoards(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "listing boards failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]boardSummary, 0, len(boards))
	for _, b := range boards {
		out = append(out, boardSummary{ID: b.ID, Title: b.Title, UpdatedAt: b.UpdatedAt})
	}

	c.JSON(http.StatusOK, gin.H{"boards": out})
}
