package repositories

import (
	"context"

	"catalog/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// SessionRepository tracks the sessions behind issued tokens.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// OTPRepository stores one-time code challenges.
type OTPRepository interface {
	Create(ctx context.Context, challenge *models.OTPChallenge) error
	// GetPending returns the newest pending challenge for the user and purpose.
	GetPending(ctx context.Context, userID string, purpose models.OTPPurpose) (*models.OTPChallenge, error)
	// Update writes the challenge only if the stored row is still pending, and returns ErrNotFound
	// otherwise.
	Update(ctx context.Context, challenge *models.OTPChallenge) error
	// ExpirePending marks every pending challenge for the user and purpose as expired.
	ExpirePending(ctx context.Context, userID string, purpose models.OTPPurpose) error
}
