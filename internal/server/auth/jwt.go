// Package auth creates and verifies the signed access tokens used by the
// session flow. Tokens are HS256 JWTs carrying the holder's identity and a
// snapshot of the board IDs the holder could access at issuance time.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkarlsson/boardauth/internal/common"
)

// Claims is the claim set embedded in every access token. BoardIDs is a
// snapshot taken at issuance; it is refreshed only when a new token is
// minted, so holders of older tokens see stale board lists until then.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	BoardIDs []string `json:"boardIds"`
}

// GenerateToken signs a new access token for the given identity with an
// expiry of now+validity.
func GenerateToken(userID, username string, boardIDs []string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:   userID,
		Username: username,
		BoardIDs: boardIDs,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns its claims. An elapsed expiry
// yields common.ErrTokenExpired; any other verification failure (bad
// signature, unexpected algorithm, malformed structure) yields
// common.ErrInvalidToken. Callers use the distinction to decide whether a
// refresh is worth attempting.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
