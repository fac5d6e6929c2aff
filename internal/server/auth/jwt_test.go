package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsson/boardauth/internal/common"
)

var testSecret = []byte("test-secret-key")

func TestGenerateAndParseToken_RoundTrip(t *testing.T) {
	boardIDs := []string{"b1", "b2"}

	tokenString, err := GenerateToken("u1", "alice", boardIDs, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ParseToken(tokenString, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, boardIDs, claims.BoardIDs)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_Expired(t *testing.T) {
	tokenString, err := GenerateToken("u1", "alice", nil, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, testSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTokenExpired), "want ErrTokenExpired, got %v", err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokenString, err := GenerateToken("u1", "alice", nil, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, []byte("other-secret"))
	assert.True(t, errors.Is(err, common.ErrInvalidToken), "want ErrInvalidToken, got %v", err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("definitely.not.a-jwt", testSecret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken), "want ErrInvalidToken, got %v", err)
}

func TestParseToken_Tampered(t *testing.T) {
	tokenString, err := GenerateToken("u1", "alice", nil, testSecret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = ParseToken(tampered, testSecret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken), "want ErrInvalidToken, got %v", err)
}

func TestParseToken_RejectsUnexpectedAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u1",
	})
	tokenString, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, testSecret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken), "want ErrInvalidToken for HS512 token, got %v", err)
}
