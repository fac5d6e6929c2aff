package models

import "time"

// RefreshToken is a server-stored session credential. Token is an opaque
// crypto-random value used as the lookup key; ExpiresAt is always
// IssuedAt plus the configured TTL. Expired rows are removed lazily when
// a caller tries to use them.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
