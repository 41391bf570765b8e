package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variant is one purchasable combination of option items of a product.
// OptionItemNID references the item chosen for the product's Nth option; unused slots are nil.
type Variant struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID     string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Stock         int             `json:"stock" gorm:"not null;default:0"`
	OptionItem1ID *string         `json:"option_item1_id" gorm:"type:varchar(36)"`
	OptionItem2ID *string         `json:"option_item2_id" gorm:"type:varchar(36)"`
	OptionItem3ID *string         `json:"option_item3_id" gorm:"type:varchar(36)"`
	Position      int             `json:"position"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// SetOptionItem fills the slot for the option at position pos (0-based).
func (v *Variant) SetOptionItem(pos int, itemID string) {
	id := itemID
	switch pos {
	case 0:
		v.OptionItem1ID = &id
	case 1:
		v.OptionItem2ID = &id
	case 2:
		v.OptionItem3ID = &id
	}
}

// OptionItemIDs returns the populated option slots in order.
func (v *Variant) OptionItemIDs() []string {
	var ids []string
	for _, id := range []*string{v.OptionItem1ID, v.OptionItem2ID, v.OptionItem3ID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
