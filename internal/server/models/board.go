package models

import "time"

// Board is a named resource container shared by all users holding a
// membership to it.
type Board struct {
	ID        string
	Title     string
	UpdatedAt time.Time
}

// RoleOwner is the membership role assigned to the creator's default board.
const RoleOwner = "owner"

// Membership links a user to a board they may access. The (UserID, BoardID)
// pair is unique.
type Membership struct {
	UserID  string
	BoardID string
	Role    string
}
