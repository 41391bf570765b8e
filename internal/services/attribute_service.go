package services

import (
	"context"
	"fmt"
	"strings"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// AttributeService manages reusable attributes and their items.
type AttributeService struct {
	repo repositories.AttributeRepository
}

// NewAttributeService creates a new AttributeService.
func NewAttributeService(repo repositories.AttributeRepository) *AttributeService {
	return &AttributeService{repo: repo}
}

func (s *AttributeService) ListAttributes(ctx context.Context) ([]models.Attribute, error) {
	return s.repo.GetAll(ctx)
}

func (s *AttributeService) GetAttribute(ctx context.Context, id string) (*models.Attribute, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateAttribute stores a new attribute. Names are unique.
func (s *AttributeService) CreateAttribute(ctx context.Context, name string) (*models.Attribute, error) {
	name, err := requireValue("name", name)
	if err != nil {
		return nil, err
	}

	attribute := &models.Attribute{Name: name}
	if err := s.repo.Create(ctx, attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}

// UpdateAttribute renames an attribute.
func (s *AttributeService) UpdateAttribute(ctx context.Context, id, name string) (*models.Attribute, error) {
	name, err := requireValue("name", name)
	if err != nil {
		return nil, err
	}

	attribute := &models.Attribute{ID: id, Name: name}
	if err := s.repo.Update(ctx, attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}

// DeleteAttribute deletes an attribute together with its items.
func (s *AttributeService) DeleteAttribute(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListAttributeItems returns the items of an existing attribute.
func (s *AttributeService) ListAttributeItems(ctx context.Context, attributeID string) ([]models.AttributeItem, error) {
	if _, err := s.repo.GetByID(ctx, attributeID); err != nil {
		return nil, err
	}
	return s.repo.GetItems(ctx, attributeID)
}

// CreateAttributeItems adds values to an attribute. Repeated values are stored once; a value the
// attribute already has makes the whole call fail with ErrConflict.
func (s *AttributeService) CreateAttributeItems(ctx context.Context, attributeID string, values []string) ([]models.AttributeItem, error) {
	if len(values) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	if _, err := s.repo.GetByID(ctx, attributeID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(values))
	items := make([]models.AttributeItem, 0, len(values))
	for _, raw := range values {
		value, err := requireValue("items", raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		items = append(items, models.AttributeItem{AttributeID: attributeID, Value: value})
	}

	if err := s.repo.CreateItems(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateAttributeItem changes the value of an item.
func (s *AttributeService) UpdateAttributeItem(ctx context.Context, id, value string) (*models.AttributeItem, error) {
	value, err := requireValue("value", value)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Value = value
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *AttributeService) DeleteAttributeItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// DeleteAttributeItems deletes the given items and returns how many were removed.
// It fails with ErrNotFound when none of the IDs existed.
func (s *AttributeService) DeleteAttributeItems(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("item_ids", "at least one item id is required")
	}
	deleted, err := s.repo.DeleteItems(ctx, ids)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, fmt.Errorf("no attribute items matched: %w", ErrNotFound)
	}
	return deleted, nil
}

func requireValue(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", invalid(field, field+" may not be blank")
	}
	if len(value) > maxNameLength {
		return "", invalid(field, fmt.Sprintf("%s may be at most %d characters", field, maxNameLength))
	}
	return value, nil
}
