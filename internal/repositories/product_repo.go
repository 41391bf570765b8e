package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductFilter narrows product listings. Empty fields do not filter.
type ProductFilter struct {
	Status models.ProductStatus
}

// ProductRepository defines the interface for product, option and variant data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the product together with its options, items and variants.
	Delete(ctx context.Context, id string) error

	// CreateOption stores the option and its items.
	CreateOption(ctx context.Context, option *models.Option) error
	// GetOptions returns the product's options with their items, in declaration order.
	GetOptions(ctx context.Context, productID string) ([]models.Option, error)

	CreateVariants(ctx context.Context, variants []models.Variant) error
	GetVariants(ctx context.Context, productID string) ([]models.Variant, error)
	GetVariant(ctx context.Context, productID, variantID string) (*models.Variant, error)
	UpdateVariant(ctx context.Context, variant *models.Variant) error
}

// ProductStore is a ProductRepository that can run several calls as one atomic unit.
// If fn returns an error nothing it wrote is kept.
type ProductStore interface {
	ProductRepository
	Transaction(ctx context.Context, fn func(repo ProductRepository) error) error
}
