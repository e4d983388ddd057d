package teacher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSecret(t *testing.T) {
	teacher := &Teacher{Username: "msmith", Secret: "chess456"}

	assert.True(t, teacher.CheckSecret("chess456"))
	assert.False(t, teacher.CheckSecret("chess457"))
	assert.False(t, teacher.CheckSecret(""))
	assert.False(t, teacher.CheckSecret("chess456 "))
}

func TestNewSession(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	s, err := NewSession("msmith", now, 8*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, Username("msmith"), s.Username)
	assert.Equal(t, now, s.CreatedAt)
	assert.Equal(t, now.Add(8*time.Hour), s.ExpiresAt)

	_, err = NewSession("", now, 8*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewSession("msmith", now, 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestSessionIsValid(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s, err := NewSession("msmith", now, time.Hour)
	require.NoError(t, err)

	assert.True(t, s.IsValid(now))
	assert.True(t, s.IsValid(now.Add(59*time.Minute)))

	// Expiry is exclusive: at exactly ExpiresAt the session is gone.
	assert.False(t, s.IsValid(now.Add(time.Hour)))
	assert.False(t, s.IsValid(now.Add(2*time.Hour)))
}

func TestTTLRemaining(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s, err := NewSession("msmith", now, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, s.TTLRemaining(now))
	assert.Equal(t, 30*time.Minute, s.TTLRemaining(now.Add(30*time.Minute)))
	assert.Equal(t, time.Duration(0), s.TTLRemaining(now.Add(2*time.Hour)))
}
