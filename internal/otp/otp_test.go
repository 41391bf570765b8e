package otp_test

import (
	"testing"
	"time"
	"unicode"

	"catalog/internal/otp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := otp.GenerateCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, unicode.IsDigit(r))
	}

	code, err = otp.GenerateCode(0)
	require.NoError(t, err)
	assert.Len(t, code, otp.DefaultLength)
}

func TestChallenge_Confirm(t *testing.T) {
	now := time.Now()
	code, ch, err := otp.Issue(6, 5*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, otp.StatePending, ch.State)
	assert.NotEqual(t, code, ch.CodeHash)

	// wrong code keeps it pending
	err = ch.Verify(wrongCode(code), now.Add(time.Minute))
	assert.ErrorIs(t, err, otp.ErrMismatch)
	assert.Equal(t, otp.StatePending, ch.State)

	err = ch.Verify(code, now.Add(time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, otp.StateConfirmed, ch.State)

	// single use
	err = ch.Verify(code, now.Add(time.Minute))
	assert.ErrorIs(t, err, otp.ErrNotPending)
}

func TestChallenge_Expired(t *testing.T) {
	now := time.Now()
	code, ch, err := otp.Issue(4, time.Minute, now)
	require.NoError(t, err)

	err = ch.Verify(code, now.Add(2*time.Minute))
	assert.ErrorIs(t, err, otp.ErrExpired)
	assert.Equal(t, otp.StateExpired, ch.State)

	err = ch.Verify(code, now)
	assert.ErrorIs(t, err, otp.ErrNotPending)
}

func TestChallenge_Expire(t *testing.T) {
	code, ch, err := otp.Issue(6, time.Minute, time.Now())
	require.NoError(t, err)

	ch.Expire()
	assert.Equal(t, otp.StateExpired, ch.State)
	assert.ErrorIs(t, ch.Verify(code, time.Now()), otp.ErrNotPending)
}

func TestChallenge_TooManyAttempts(t *testing.T) {
	now := time.Now()
	code, ch, err := otp.Issue(6, time.Minute, now)
	require.NoError(t, err)

	for i := 1; i < otp.MaxAttempts; i++ {
		assert.ErrorIs(t, ch.Verify(wrongCode(code), now), otp.ErrMismatch)
		assert.Equal(t, otp.StatePending, ch.State)
		assert.Equal(t, i, ch.Attempts)
	}

	err = ch.Verify(wrongCode(code), now)
	assert.ErrorIs(t, err, otp.ErrMismatch)
	assert.ErrorIs(t, err, otp.ErrTooManyAttempts)
	assert.Equal(t, otp.StateExpired, ch.State)

	// the right code no longer works
	assert.ErrorIs(t, ch.Verify(code, now), otp.ErrNotPending)
}

func wrongCode(code string) string {
	b := []byte(code)
	if b[0] == '9' {
		b[0] = '0'
	} else {
		b[0]++
	}
	return string(b)
}
