package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus is the publication state of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"   // ready to sell
	ProductStatusArchived ProductStatus = "archived" // no longer sold
	ProductStatusDraft    ProductStatus = "draft"    // not ready to sell
)

// ParseProductStatus maps a raw status to a known one. Anything unknown, including an empty
// string, becomes draft.
func ParseProductStatus(raw string) ProductStatus {
	switch s := ProductStatus(raw); s {
	case ProductStatusActive, ProductStatusArchived, ProductStatusDraft:
		return s
	default:
		return ProductStatusDraft
	}
}

// Product represents a product in the catalog.
type Product struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string        `json:"name" gorm:"type:varchar(255);not null"`
	Description string        `json:"description" gorm:"type:text"`
	Status      ProductStatus `json:"status" gorm:"type:varchar(10);not null;default:draft;index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
