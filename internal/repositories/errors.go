package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped when a unique constraint rejects a write.
	ErrDuplicate = errors.New("already exists")
)

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
