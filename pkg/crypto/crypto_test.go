package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("s3cret-Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-Passw0rd", hash)

	assert.True(t, Compare("s3cret-Passw0rd", hash))
	assert.False(t, Compare("wrong-password", hash))
	assert.False(t, Compare("s3cret-Passw0rd", "not-a-bcrypt-hash"))
}

func TestGenerateSessionID(t *testing.T) {
	id, err := GenerateSessionID(32)
	require.NoError(t, err)
	assert.Len(t, id, 64) // hex doubles the byte length
	assert.Regexp(t, "^[0-9a-f]+$", id)

	other, err := GenerateSessionID(32)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	// non-positive lengths fall back to the default
	id, err = GenerateSessionID(0)
	require.NoError(t, err)
	assert.Len(t, id, DefaultKeyLength*2)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP(6)
		require.NoError(t, err)
		assert.Len(t, otp, 6)
		assert.Regexp(t, "^[0-9]{6}$", otp)
	}
}
