package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_UsesConfiguredCost(t *testing.T) {
	prev := BcryptCost
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = prev })

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestVerifyPassword(t *testing.T) {
	prev := BcryptCost
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = prev })

	hash, err := HashPassword("mySecurePassword123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "Correct password", hash: hash, password: "mySecurePassword123", want: true},
		{name: "Incorrect password", hash: hash, password: "wrongPassword", want: false},
		{name: "Empty password", hash: hash, password: "", want: false},
		{name: "Invalid hash", hash: "invalid-hash", password: "mySecurePassword123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hash, tt.password))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	prev := BcryptCost
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = prev })

	first, err := HashPassword("same")
	require.NoError(t, err)
	second, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "same"))
	assert.True(t, VerifyPassword(second, "same"))
}
