package handlers

import (
	"catalog/internal/services"
	"catalog/internal/variants"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products and their variants.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Put("/:id/variants/:variantId", h.HandleUpdateVariant)
}

// OptionRequest is one option of a new product. A missing items list is rejected; an empty one
// drops the option.
type OptionRequest struct {
	Name  string   `json:"name" validate:"required,max=255"`
	Items []string `json:"items" validate:"required,dive,required,max=255"`
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	Status      string           `json:"status" validate:"max=10"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Options     []OptionRequest  `json:"options" validate:"dive"`
}

// UpdateProductRequest represents the request body for updating a product.
type UpdateProductRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"max=10"`
}

// UpdateVariantRequest represents the request body for updating a variant.
type UpdateVariantRequest struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
	Stock *int             `json:"stock" validate:"required,min=0"`
}

// HandleGetProducts lists products, optionally filtered by ?status=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, "Failed to retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProduct returns a product with its options and variants.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	detail, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Failed to retrieve product", err)
	}
	return c.JSON(detail)
}

// HandleCreateProduct creates a product and generates its variants.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid product", err)
	}

	in := services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}
	for _, opt := range req.Options {
		in.Options = append(in.Options, variants.OptionInput{Name: opt.Name, Items: opt.Items})
	}

	detail, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

// HandleUpdateProduct replaces name, description and status of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid product", err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product with everything it owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUpdateVariant sets price and stock of a variant.
func (h *ProductHandler) HandleUpdateVariant(c *fiber.Ctx) error {
	var req UpdateVariantRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid variant", err)
	}

	variant, err := h.service.UpdateVariant(c.UserContext(), c.Params("id"), c.Params("variantId"), services.UpdateVariantInput{
		Price: *req.Price,
		Stock: *req.Stock,
	})
	if err != nil {
		return respondError(c, "Could not update variant", err)
	}
	return c.JSON(variant)
}
