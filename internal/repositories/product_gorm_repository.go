package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductStore.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Transaction runs fn against a repository bound to a single database transaction.
func (r *GORMProductRepository) Transaction(ctx context.Context, fn func(repo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMProductRepository{db: tx})
	})
}

// GetAll retrieves products from the database, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translate(err))
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// Update writes name, description and status of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select("Name", "Description", "Status").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product and everything it owns.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
		}

		optionIDs := tx.Model(&models.Option{}).Select("id").Where("product_id = ?", id)
		if err := tx.Where("option_id IN (?)", optionIDs).Delete(&models.OptionItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete option items of product %s: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return fmt.Errorf("failed to delete options of product %s: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
			return fmt.Errorf("failed to delete variants of product %s: %w", id, err)
		}
		return nil
	})
}

// CreateOption stores an option row followed by its items.
func (r *GORMProductRepository) CreateOption(ctx context.Context, option *models.Option) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(option).Error; err != nil {
			return fmt.Errorf("failed to create option %q: %w", option.Name, translate(err))
		}
		if len(option.Items) == 0 {
			return nil
		}

		for i := range option.Items {
			option.Items[i].OptionID = option.ID
		}
		if err := tx.Create(&option.Items).Error; err != nil {
			return fmt.Errorf("failed to create items of option %q: %w", option.Name, translate(err))
		}
		return nil
	})
}

// GetOptions loads a product's options with their items, both in position order.
func (r *GORMProductRepository) GetOptions(ctx context.Context, productID string) ([]models.Option, error) {
	var options []models.Option
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("product_id = ?", productID).
		Order("position").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get options of product %s: %w", productID, err)
	}
	return options, nil
}

// CreateVariants inserts variants in one batch.
func (r *GORMProductRepository) CreateVariants(ctx context.Context, variants []models.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&variants).Error; err != nil {
		return fmt.Errorf("failed to create variants: %w", translate(err))
	}
	return nil
}

// GetVariants lists a product's variants in generation order.
func (r *GORMProductRepository) GetVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("position").Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get variants of product %s: %w", productID, err)
	}
	return variants, nil
}

// GetVariant retrieves one variant that belongs to productID.
func (r *GORMProductRepository) GetVariant(ctx context.Context, productID, variantID string) (*models.Variant, error) {
	var variant models.Variant
	err := r.db.WithContext(ctx).First(&variant, "id = ? AND product_id = ?", variantID, productID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get variant %s of product %s: %w", variantID, productID, translate(err))
	}
	return &variant, nil
}

// UpdateVariant writes price and stock of an existing variant.
func (r *GORMProductRepository) UpdateVariant(ctx context.Context, variant *models.Variant) error {
	res := r.db.WithContext(ctx).Model(variant).Select("Price", "Stock").Updates(variant)
	if res.Error != nil {
		return fmt.Errorf("failed to update variant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("variant with ID %s not found for update: %w", variant.ID, ErrNotFound)
	}
	return nil
}
