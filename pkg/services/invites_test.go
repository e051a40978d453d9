package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	raw, hash, expires, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64, "32 random bytes hex-encoded")
	assert.Equal(t, HashToken(raw), hash)
	assert.NotEqual(t, raw, hash, "the raw value must never equal the stored digest")
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	raw2, _, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestTokenExpired(t *testing.T) {
	assert.True(t, TokenExpired(nil))

	past := time.Now().Add(-time.Second)
	assert.True(t, TokenExpired(&past))

	future := time.Now().Add(time.Hour)
	assert.False(t, TokenExpired(&future))
}
