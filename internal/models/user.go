package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account. The email is the login name.
type User struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string     `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	IsActive  bool       `json:"is_active" gorm:"not null;default:false"`
	IsAdmin   bool       `json:"is_admin" gorm:"not null;default:false"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
