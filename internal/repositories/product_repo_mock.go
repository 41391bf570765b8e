package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductStore.
type MockProductRepository struct {
	products map[string]models.Product
	options  map[string]models.Option // items are kept in the items map
	items    map[string]models.OptionItem
	variants map[string]models.Variant
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		options:  make(map[string]models.Option),
		items:    make(map[string]models.OptionItem),
		variants: make(map[string]models.Variant),
	}
}

// Transaction snapshots the store, runs fn and restores the snapshot if fn fails.
// Transactions are not isolated from concurrent writers.
func (r *MockProductRepository) Transaction(ctx context.Context, fn func(repo ProductRepository) error) error {
	r.mu.RLock()
	products, options, items, variants := cloneMap(r.products), cloneMap(r.options), cloneMap(r.items), cloneMap(r.variants)
	r.mu.RUnlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.products, r.options, r.items, r.variants = products, options, items, variants
		r.mu.Unlock()
		return err
	}
	return nil
}

// GetAll returns products, newest first.
func (r *MockProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrDuplicate)
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Status = product.Status
	existing.UpdatedAt = time.Now()
	r.products[product.ID] = existing
	*product = existing
	return nil
}

// Delete removes a product and everything it owns.
func (r *MockProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.products, id)

	for optionID, option := range r.options {
		if option.ProductID != id {
			continue
		}
		for itemID, item := range r.items {
			if item.OptionID == optionID {
				delete(r.items, itemID)
			}
		}
		delete(r.options, optionID)
	}
	for variantID, variant := range r.variants {
		if variant.ProductID == id {
			delete(r.variants, variantID)
		}
	}
	return nil
}

// CreateOption adds an option and its items, enforcing the same unique keys as the schema.
func (r *MockProductRepository) CreateOption(ctx context.Context, option *models.Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.options {
		if existing.ProductID == option.ProductID && existing.Name == option.Name {
			return fmt.Errorf("option %q of product %s: %w", option.Name, option.ProductID, ErrDuplicate)
		}
	}
	seen := make(map[string]struct{}, len(option.Items))
	for _, item := range option.Items {
		if _, dup := seen[item.Value]; dup {
			return fmt.Errorf("item %q of option %q: %w", item.Value, option.Name, ErrDuplicate)
		}
		seen[item.Value] = struct{}{}
	}

	if option.ID == "" {
		option.ID = uuid.New().String()
	}
	for i := range option.Items {
		if option.Items[i].ID == "" {
			option.Items[i].ID = uuid.New().String()
		}
		option.Items[i].OptionID = option.ID
		r.items[option.Items[i].ID] = option.Items[i]
	}

	stored := *option
	stored.Items = nil
	r.options[option.ID] = stored
	return nil
}

// GetOptions returns the product's options with items, in position order.
func (r *MockProductRepository) GetOptions(ctx context.Context, productID string) ([]models.Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var options []models.Option
	for _, option := range r.options {
		if option.ProductID != productID {
			continue
		}
		option.Items = nil
		for _, item := range r.items {
			if item.OptionID == option.ID {
				option.Items = append(option.Items, item)
			}
		}
		sort.Slice(option.Items, func(i, j int) bool { return option.Items[i].Position < option.Items[j].Position })
		options = append(options, option)
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Position < options[j].Position })
	return options, nil
}

// CreateVariants adds variants.
func (r *MockProductRepository) CreateVariants(ctx context.Context, variants []models.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.New().String()
		}
		variants[i].CreatedAt, variants[i].UpdatedAt = now, now
		r.variants[variants[i].ID] = variants[i]
	}
	return nil
}

// GetVariants returns the product's variants in position order.
func (r *MockProductRepository) GetVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var variants []models.Variant
	for _, v := range r.variants {
		if v.ProductID == productID {
			variants = append(variants, v)
		}
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Position < variants[j].Position })
	return variants, nil
}

// GetVariant returns a single variant of a product.
func (r *MockProductRepository) GetVariant(ctx context.Context, productID, variantID string) (*models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.variants[variantID]
	if !ok || v.ProductID != productID {
		return nil, fmt.Errorf("variant %s of product %s: %w", variantID, productID, ErrNotFound)
	}
	return &v, nil
}

// UpdateVariant sets price and stock of an existing variant.
func (r *MockProductRepository) UpdateVariant(ctx context.Context, variant *models.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.variants[variant.ID]
	if !ok {
		return fmt.Errorf("variant with ID %s not found for update: %w", variant.ID, ErrNotFound)
	}
	existing.Price = variant.Price
	existing.Stock = variant.Stock
	existing.UpdatedAt = time.Now()
	r.variants[variant.ID] = existing
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
