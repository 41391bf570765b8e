package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Option is a named axis of customization of a product, e.g. Color.
// A product has at most three options and option names are unique per product.
type Option struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string       `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_option_product_name"`
	Name      string       `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_option_product_name"`
	Position  int          `json:"position"`
	Items     []OptionItem `json:"items" gorm:"foreignKey:OptionID"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OptionItem is one allowed value of an option, e.g. Red.
type OptionItem struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OptionID string `json:"option_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_item_option_value"`
	Value    string `json:"value" gorm:"type:varchar(255);not null;uniqueIndex:idx_item_option_value"`
	Position int    `json:"position"`
}

func (i *OptionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
