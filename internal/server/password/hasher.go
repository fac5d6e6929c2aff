// Package password provides one-way salted password hashing for user
// credentials, backed by bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash produces a salted one-way hash of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash is
	// treated as a mismatch, never an error.
	Verify(password string, hash string) bool
}

// BcryptHasher implements Hasher using bcrypt with a configurable cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a BcryptHasher with the given work factor.
// Costs outside bcrypt's supported range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
