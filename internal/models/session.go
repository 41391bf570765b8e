package models

import (
	"time"

	"catalog/internal/otp"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session backs an issued JWT. The ID is the token's jti; deleting the row revokes the token.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// OTPPurpose tells what a one-time code unlocks.
type OTPPurpose string

const (
	OTPPurposeSignup        OTPPurpose = "signup"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

// OTPChallenge is the persisted form of an otp.Challenge.
type OTPChallenge struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `gorm:"type:varchar(36);not null;index:idx_otp_user_purpose"`
	Purpose   OTPPurpose `gorm:"type:varchar(20);not null;index:idx_otp_user_purpose"`
	CodeHash  string     `gorm:"type:varchar(255);not null"`
	State     otp.State  `gorm:"type:varchar(10);not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	Attempts  int        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *OTPChallenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Challenge returns the state machine view of the row.
func (c *OTPChallenge) Challenge() otp.Challenge {
	return otp.Challenge{CodeHash: c.CodeHash, State: c.State, ExpiresAt: c.ExpiresAt, Attempts: c.Attempts}
}

// Apply copies the state machine result back onto the row.
func (c *OTPChallenge) Apply(ch otp.Challenge) {
	c.CodeHash = ch.CodeHash
	c.State = ch.State
	c.ExpiresAt = ch.ExpiresAt
	c.Attempts = ch.Attempts
}
