package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMAttributeRepository is a GORM implementation of AttributeRepository.
type GORMAttributeRepository struct {
	db *gorm.DB
}

// NewGORMAttributeRepository creates a new instance of GORMAttributeRepository.
func NewGORMAttributeRepository(db *gorm.DB) *GORMAttributeRepository {
	return &GORMAttributeRepository{
		db: db,
	}
}

// GetAll retrieves all attributes ordered by name.
func (r *GORMAttributeRepository) GetAll(ctx context.Context) ([]models.Attribute, error) {
	var attributes []models.Attribute
	if err := r.db.WithContext(ctx).Order("name").Find(&attributes).Error; err != nil {
		return nil, fmt.Errorf("failed to get all attributes: %w", err)
	}
	return attributes, nil
}

// GetByID retrieves a single attribute by its ID.
func (r *GORMAttributeRepository) GetByID(ctx context.Context, id string) (*models.Attribute, error) {
	var attribute models.Attribute
	if err := r.db.WithContext(ctx).First(&attribute, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get attribute by ID %s: %w", id, translate(err))
	}
	return &attribute, nil
}

// Create creates a new attribute.
func (r *GORMAttributeRepository) Create(ctx context.Context, attribute *models.Attribute) error {
	if err := r.db.WithContext(ctx).Create(attribute).Error; err != nil {
		return fmt.Errorf("failed to create attribute %q: %w", attribute.Name, translate(err))
	}
	return nil
}

// Update renames an existing attribute.
func (r *GORMAttributeRepository) Update(ctx context.Context, attribute *models.Attribute) error {
	res := r.db.WithContext(ctx).Model(attribute).Select("Name").Updates(attribute)
	if res.Error != nil {
		return fmt.Errorf("failed to update attribute: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("attribute with ID %s not found for update: %w", attribute.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes an attribute and its items.
func (r *GORMAttributeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Attribute{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete attribute: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("attribute with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		if err := tx.Where("attribute_id = ?", id).Delete(&models.AttributeItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of attribute %s: %w", id, err)
		}
		return nil
	})
}

// GetItems lists the items of an attribute ordered by value.
func (r *GORMAttributeRepository) GetItems(ctx context.Context, attributeID string) ([]models.AttributeItem, error) {
	var items []models.AttributeItem
	if err := r.db.WithContext(ctx).Where("attribute_id = ?", attributeID).Order("value").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items of attribute %s: %w", attributeID, err)
	}
	return items, nil
}

// GetItem retrieves a single attribute item.
func (r *GORMAttributeRepository) GetItem(ctx context.Context, id string) (*models.AttributeItem, error) {
	var item models.AttributeItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get attribute item by ID %s: %w", id, translate(err))
	}
	return &item, nil
}

// CreateItems inserts items in a single transaction.
func (r *GORMAttributeRepository) CreateItems(ctx context.Context, items []models.AttributeItem) error {
	if len(items) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create attribute items: %w", translate(err))
	}
	return nil
}

// UpdateItem changes the value of an attribute item.
func (r *GORMAttributeRepository) UpdateItem(ctx context.Context, item *models.AttributeItem) error {
	res := r.db.WithContext(ctx).Model(item).Select("Value").Updates(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update attribute item: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("attribute item with ID %s not found for update: %w", item.ID, ErrNotFound)
	}
	return nil
}

// DeleteItem deletes one attribute item.
func (r *GORMAttributeRepository) DeleteItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.AttributeItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete attribute item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("attribute item with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteItems deletes every item whose ID is listed.
func (r *GORMAttributeRepository) DeleteItems(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.AttributeItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete attribute items: %w", res.Error)
	}
	return res.RowsAffected, nil
}
