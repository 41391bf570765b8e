package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"catalog/internal/cache"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/variants"

	"github.com/shopspring/decimal"
)

const (
	maxNameLength   = 255
	maxStatusLength = 10
)

// ProductCache is a read-through store for product details. Entries are written under the version
// read before loading the rows; Invalidate moves the product to a new version.
type ProductCache interface {
	Version(ctx context.Context, id string) (int64, error)
	Get(ctx context.Context, id string, version int64, dst interface{}) error
	Set(ctx context.Context, id string, version int64, value interface{}) error
	Invalidate(ctx context.Context, id string) error
}

// ProductDetail is a product together with everything generated for it.
type ProductDetail struct {
	Product  models.Product   `json:"product"`
	Options  []models.Option  `json:"options"`
	Variants []models.Variant `json:"variants"`
}

// CreateProductInput describes a new product. Price and Stock are applied to every generated variant.
type CreateProductInput struct {
	Name        string
	Description string
	Status      string
	Price       decimal.Decimal
	Stock       int
	Options     []variants.OptionInput
}

// UpdateProductInput replaces the editable fields of a product.
type UpdateProductInput struct {
	Name        string
	Description string
	Status      string
}

// UpdateVariantInput sets the sellable fields of a variant.
type UpdateVariantInput struct {
	Price decimal.Decimal
	Stock int
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductStore
	cache  ProductCache
	events EventPublisher
}

// NewProductService creates a new ProductService. cache and events may be nil.
func NewProductService(repo repositories.ProductStore, cache ProductCache, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  cache,
		events: events,
	}
}

// ListProducts returns products, newest first. An empty status lists every product.
func (s *ProductService) ListProducts(ctx context.Context, status string) ([]models.Product, error) {
	var filter repositories.ProductFilter
	if status != "" {
		filter.Status = models.ProductStatus(status)
		if models.ParseProductStatus(status) != filter.Status {
			return nil, invalid("status", fmt.Sprintf("unknown status %q", status))
		}
	}
	return s.repo.GetAll(ctx, filter)
}

// GetProduct returns a product with its options and variants.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	useCache := s.cache != nil
	var version int64
	if useCache {
		v, err := s.cache.Version(ctx, id)
		if err != nil {
			log.Printf("Warning: product cache version for %s unavailable: %v", id, err)
			useCache = false
		}
		version = v
	}
	if useCache {
		var cached ProductDetail
		err := s.cache.Get(ctx, id, version, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("Warning: product cache read for %s failed: %v", id, err)
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := s.repo.GetOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	productVariants, err := s.repo.GetVariants(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ProductDetail{Product: *product, Options: options, Variants: productVariants}

	if useCache {
		if err := s.cache.Set(ctx, id, version, detail); err != nil {
			log.Printf("Warning: product cache write for %s failed: %v", id, err)
		}
	}
	return detail, nil
}

// CreateProduct normalizes the options, derives the variants and stores the product, its options,
// their items and the variants in one transaction.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*ProductDetail, error) {
	if err := validateProductFields(in.Name, in.Status); err != nil {
		return nil, err
	}
	if err := validateStockAndPrice(in.Price, in.Stock); err != nil {
		return nil, err
	}

	options, err := variants.Normalize(in.Options)
	if err != nil {
		return nil, invalid("options", err.Error())
	}

	detail := &ProductDetail{
		Product: models.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Status:      models.ParseProductStatus(in.Status),
		},
	}

	err = s.repo.Transaction(ctx, func(repo repositories.ProductRepository) error {
		if err := repo.Create(ctx, &detail.Product); err != nil {
			return err
		}

		detail.Options = make([]models.Option, 0, len(options))
		for pos, opt := range options {
			option := models.Option{ProductID: detail.Product.ID, Name: opt.Name, Position: pos}
			for i, value := range opt.Items {
				option.Items = append(option.Items, models.OptionItem{Value: value, Position: i})
			}
			if err := repo.CreateOption(ctx, &option); err != nil {
				return err
			}
			detail.Options = append(detail.Options, option)
		}

		detail.Variants = buildVariants(detail.Product.ID, detail.Options, options, in.Price, in.Stock)
		return repo.CreateVariants(ctx, detail.Variants)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product %q: %w", in.Name, err)
	}

	log.Printf("Created product %s with %d options and %d variants", detail.Product.ID, len(detail.Options), len(detail.Variants))
	publish(s.events, EventProductCreated, map[string]interface{}{
		"id":       detail.Product.ID,
		"name":     detail.Product.Name,
		"status":   detail.Product.Status,
		"variants": len(detail.Variants),
	})
	return detail, nil
}

// buildVariants turns every combination of option items into a variant. stored holds the persisted
// options in the same order as normalized.
func buildVariants(productID string, stored []models.Option, normalized []variants.Option, price decimal.Decimal, stock int) []models.Variant {
	combos := variants.Combine(normalized)
	out := make([]models.Variant, 0, len(combos))
	for pos, combo := range combos {
		v := models.Variant{ProductID: productID, Price: price, Stock: stock, Position: pos}
		for optPos, itemIdx := range combo {
			v.SetOptionItem(optPos, stored[optPos].Items[itemIdx].ID)
		}
		out = append(out, v)
	}
	return out
}

// UpdateProduct replaces name, description and status. Options and variants are left untouched.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	if err := validateProductFields(in.Name, in.Status); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Status = models.ParseProductStatus(in.Status)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct deletes a product with its options, items and variants.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	publish(s.events, EventProductDeleted, map[string]string{"id": id})
	return nil
}

// UpdateVariant sets price and stock of one of the product's variants.
func (s *ProductService) UpdateVariant(ctx context.Context, productID, variantID string, in UpdateVariantInput) (*models.Variant, error) {
	if err := validateStockAndPrice(in.Price, in.Stock); err != nil {
		return nil, err
	}

	variant, err := s.repo.GetVariant(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}
	variant.Price = in.Price
	variant.Stock = in.Stock

	if err := s.repo.UpdateVariant(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productID)
	return variant, nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("Warning: product cache invalidation for %s failed: %v", id, err)
	}
}

func validateProductFields(name, status string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return invalid("name", "name is required")
	case len(name) > maxNameLength:
		return invalid("name", fmt.Sprintf("name may be at most %d characters", maxNameLength))
	case len(status) > maxStatusLength:
		return invalid("status", fmt.Sprintf("status may be at most %d characters", maxStatusLength))
	}
	return nil
}

func validateStockAndPrice(price decimal.Decimal, stock int) error {
	if price.IsNegative() {
		return invalid("price", "price may not be negative")
	}
	if stock < 0 {
		return invalid("stock", "stock may not be negative")
	}
	return nil
}
