package repositories

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/otp"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, translate(err))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, translate(err))
	}
	return &user, nil
}

// Update writes the mutable account fields.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("Email", "Password", "IsActive", "IsAdmin", "LastLogin").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{db: db}
}

func (r *GORMSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", translate(err))
	}
	return nil
}

// Exists reports whether an unexpired session with the given ID exists.
func (r *GORMSessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up session %s: %w", id, err)
	}
	return count > 0, nil
}

func (r *GORMSessionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMSessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions of user %s: %w", userID, err)
	}
	return nil
}

// GORMOTPRepository is a GORM implementation of OTPRepository.
type GORMOTPRepository struct {
	db *gorm.DB
}

// NewGORMOTPRepository creates a new instance of GORMOTPRepository.
func NewGORMOTPRepository(db *gorm.DB) *GORMOTPRepository {
	return &GORMOTPRepository{db: db}
}

func (r *GORMOTPRepository) Create(ctx context.Context, challenge *models.OTPChallenge) error {
	if err := r.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return fmt.Errorf("failed to create otp challenge: %w", err)
	}
	return nil
}

func (r *GORMOTPRepository) GetPending(ctx context.Context, userID string, purpose models.OTPPurpose) (*models.OTPChallenge, error) {
	var challenge models.OTPChallenge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND state = ?", userID, purpose, otp.StatePending).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending %s challenge for user %s: %w", purpose, userID, translate(err))
	}
	return &challenge, nil
}

func (r *GORMOTPRepository) Update(ctx context.Context, challenge *models.OTPChallenge) error {
	res := r.db.WithContext(ctx).Model(challenge).
		Where("state = ?", otp.StatePending).
		Select("State", "CodeHash", "ExpiresAt", "Attempts").
		Updates(challenge)
	if res.Error != nil {
		return fmt.Errorf("failed to update otp challenge: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending otp challenge %s: %w", challenge.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMOTPRepository) ExpirePending(ctx context.Context, userID string, purpose models.OTPPurpose) error {
	err := r.db.WithContext(ctx).Model(&models.OTPChallenge{}).
		Where("user_id = ? AND purpose = ? AND state = ?", userID, purpose, otp.StatePending).
		Update("state", otp.StateExpired).Error
	if err != nil {
		return fmt.Errorf("failed to expire %s challenges for user %s: %w", purpose, userID, err)
	}
	return nil
}
