// Package otp issues numeric one-time codes and tracks their lifecycle.
//
// A Challenge starts Pending. A matching code presented before the deadline moves it to Confirmed;
// presenting any code after the deadline, or MaxAttempts wrong codes, moves it to Expired. Only
// Pending challenges accept codes.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// State of a challenge.
type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateExpired   State = "expired"
)

const (
	// DefaultLength is the number of digits in a generated code.
	DefaultLength = 6
	// MaxAttempts is how many wrong codes a challenge accepts before it expires.
	MaxAttempts = 5
)

var (
	ErrNotPending      = errors.New("code already used or expired")
	ErrExpired         = errors.New("code has expired")
	ErrMismatch        = errors.New("code does not match")
	ErrTooManyAttempts = errors.New("too many wrong codes")
)

// Challenge is the verifiable part of an issued code. Only the bcrypt hash of the code is kept.
type Challenge struct {
	CodeHash  string
	State     State
	ExpiresAt time.Time
	Attempts  int
}

// Issue generates a fresh code of the given length and the pending challenge guarding it.
// The plain code is returned once so it can be handed to the delivery channel.
func Issue(length int, ttl time.Duration, now time.Time) (string, Challenge, error) {
	code, err := GenerateCode(length)
	if err != nil {
		return "", Challenge{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", Challenge{}, fmt.Errorf("failed to hash code: %w", err)
	}

	return code, Challenge{
		CodeHash:  string(hash),
		State:     StatePending,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Verify checks code against the challenge and performs the state transition.
// On a mismatch the challenge stays pending so the user can retry, until MaxAttempts is reached.
func (c *Challenge) Verify(code string, now time.Time) error {
	if c.State != StatePending {
		return ErrNotPending
	}
	if !now.Before(c.ExpiresAt) {
		c.State = StateExpired
		return ErrExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) != nil {
		c.Attempts++
		if c.Attempts >= MaxAttempts {
			c.State = StateExpired
			return fmt.Errorf("%w: %w", ErrMismatch, ErrTooManyAttempts)
		}
		return ErrMismatch
	}
	c.State = StateConfirmed
	return nil
}

// Expire retires a pending challenge, e.g. when a newer one is issued.
func (c *Challenge) Expire() {
	if c.State == StatePending {
		c.State = StateExpired
	}
}

// GenerateCode returns a random numeric string of the given length.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	ten := big.NewInt(10)
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
