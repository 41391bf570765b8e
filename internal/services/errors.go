package services

import (
	"errors"
	"sort"
	"strings"

	"catalog/internal/repositories"
)

var (
	// ErrNotFound and ErrConflict are the repository sentinels, so errors.Is works across layers.
	ErrNotFound = repositories.ErrNotFound
	ErrConflict = repositories.ErrDuplicate

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAlreadyActive      = errors.New("account is already active")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)

// ValidationError reports input that breaks a business rule, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
