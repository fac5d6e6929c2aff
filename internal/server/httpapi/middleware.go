package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkarlsson/boardauth/internal/common"
	"github.com/mkarlsson/boardauth/internal/server/auth"
)

const (
	ctxUserIDKey   = "userID"
	ctxUsernameKey = "username"
)

// bearerToken extracts the token from the Authorization header. The scheme
// is matched case-insensitively; the header must be exactly
// "Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if header == "" {
		return "", common.ErrMissingCredential
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) || parts[1] == "" {
		return "", common.ErrInvalidToken
	}

	return parts[1], nil
}

// accessTokenMiddleware guards routes that require a valid access token.
// On success it stores the caller's identity in the gin context.
func (s *HTTPServer) accessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			if errors.Is(err, common.ErrMissingCredential) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			}
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUsernameKey, claims.Username)
		c.Next()
	}
}
