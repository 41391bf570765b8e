package repositories

import (
	"context"

	"catalog/internal/models"
)

// AttributeRepository defines the interface for attribute and attribute item data access.
type AttributeRepository interface {
	GetAll(ctx context.Context) ([]models.Attribute, error)
	GetByID(ctx context.Context, id string) (*models.Attribute, error)
	Create(ctx context.Context, attribute *models.Attribute) error
	Update(ctx context.Context, attribute *models.Attribute) error
	// Delete removes the attribute and its items.
	Delete(ctx context.Context, id string) error

	GetItems(ctx context.Context, attributeID string) ([]models.AttributeItem, error)
	GetItem(ctx context.Context, id string) (*models.AttributeItem, error)
	// CreateItems stores all items or none of them.
	CreateItems(ctx context.Context, items []models.AttributeItem) error
	UpdateItem(ctx context.Context, item *models.AttributeItem) error
	DeleteItem(ctx context.Context, id string) error
	// DeleteItems removes the items with the given IDs and reports how many existed.
	DeleteItems(ctx context.Context, ids []string) (int64, error)
}
