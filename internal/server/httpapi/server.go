// Package httpapi exposes the session and board services over a JSON REST
// API using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mkarlsson/boardauth/internal/logging"
	"github.com/mkarlsson/boardauth/internal/server/config"
	"github.com/mkarlsson/boardauth/internal/server/models"
	"github.com/mkarlsson/boardauth/internal/server/services"
)

// SessionService is the slice of session behavior the HTTP layer depends on.
type SessionService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

// BoardService is the slice of board behavior the HTTP layer depends on.
type BoardService interface {
	ListBoards(ctx context.Context, userID string) ([]*models.Board, error)
}

type HTTPServer struct {
	address           string
	corsAllowedOrigin string
	jwtSecret         []byte
	session           SessionService
	boards            BoardService
	logger            logging.Logger
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, session SessionService, boards BoardService) *HTTPServer {
	return &HTTPServer{
		address:           cfg.EndpointAddrHTTP,
		corsAllowedOrigin: cfg.CORSAllowedOrigin,
		jwtSecret:         []byte(cfg.SecretKey),
		session:           session,
		boards:            boards,
		logger:            l.With("module", "http_server"),
	}
}

// Router assembles the gin engine with middleware and all routes.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.corsMiddleware())

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/refresh", s.handleRefresh)
	authGroup.DELETE("/refresh", s.handleLogout)

	api.GET("/boards", s.accessTokenMiddleware(), s.handleListBoards)

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// corsMiddleware configures CORS for the single allowed frontend origin.
// Credentialed requests are only allowed for a named origin; the CORS spec
// forbids combining credentials with a wildcard.
func (s *HTTPServer) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if s.corsAllowedOrigin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{s.corsAllowedOrigin}
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
