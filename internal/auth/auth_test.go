package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, ValidateCredentials("spike@bebop.example", "password"))
	assert.ErrorIs(t, ValidateCredentials("not-an-email", "password"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateCredentials("Spike <spike@bebop.example>", "password"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateCredentials("spike@bebop.example", "12345"), ErrWeakPassword)
}
