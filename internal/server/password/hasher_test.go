package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, h.Verify("pw1", hash))
	assert.False(t, h.Verify("wrong", hash))
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must differ")
}

func TestBcryptHasher_MalformedHashIsMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("pw1", ""))
	assert.False(t, h.Verify("pw1", "not-a-bcrypt-hash"))
}

func TestNewBcryptHasher_ClampsInvalidCost(t *testing.T) {
	h := NewBcryptHasher(-1)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptHasher_CostEmbeddedInHash(t *testing.T) {
	h := NewBcryptHasher(6)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$06$"), "hash should carry the configured cost: %s", hash)
}
