package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attribute is a reusable option template (e.g. Size with S, M, L) admins pick from when
// building products.
type Attribute struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex" validate:"required,max=255"`
}

func (a *Attribute) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// AttributeItem is one value of an attribute.
type AttributeItem struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AttributeID string `json:"attribute_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_attribute_item"`
	Value       string `json:"value" gorm:"type:varchar(255);not null;uniqueIndex:idx_attribute_item"`
}

func (i *AttributeItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
