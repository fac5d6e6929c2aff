// Package models defines the persistent records managed by the server:
// users, boards, memberships, and refresh tokens.
package models

import "time"

// User is an identity record. The username is unique and case-sensitive;
// PasswordHash is an opaque bcrypt hash and never leaves the server.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
