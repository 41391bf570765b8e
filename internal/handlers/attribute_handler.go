package handlers

import (
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AttributeHandler handles HTTP requests for attributes and attribute items.
type AttributeHandler struct {
	service  *services.AttributeService
	validate *validator.Validate
}

// NewAttributeHandler creates a new AttributeHandler.
func NewAttributeHandler(service *services.AttributeService) *AttributeHandler {
	return &AttributeHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the attribute routes with the Fiber router.
func (h *AttributeHandler) RegisterRoutes(router fiber.Router) {
	attributeRoutes := router.Group("/attributes")
	attributeRoutes.Get("/", h.HandleGetAttributes)
	attributeRoutes.Post("/", h.HandleCreateAttribute)
	attributeRoutes.Get("/:id", h.HandleGetAttribute)
	attributeRoutes.Put("/:id", h.HandleUpdateAttribute)
	attributeRoutes.Delete("/:id", h.HandleDeleteAttribute)
	attributeRoutes.Get("/:id/items", h.HandleGetAttributeItems)

	itemRoutes := router.Group("/attribute-items")
	itemRoutes.Post("/", h.HandleCreateAttributeItems)
	itemRoutes.Post("/delete-items", h.HandleDeleteAttributeItems)
	itemRoutes.Put("/:id", h.HandleUpdateAttributeItem)
	itemRoutes.Delete("/:id", h.HandleDeleteAttributeItem)
}

// AttributeRequest represents the request body for creating or renaming an attribute.
type AttributeRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateAttributeItemsRequest adds values to an attribute.
type CreateAttributeItemsRequest struct {
	AttributeID string   `json:"attribute_id" validate:"required"`
	Items       []string `json:"items" validate:"required,min=1,dive,required,max=255"`
}

// UpdateAttributeItemRequest changes the value of an item.
type UpdateAttributeItemRequest struct {
	Value string `json:"value" validate:"required,max=255"`
}

// DeleteAttributeItemsRequest deletes several items at once.
type DeleteAttributeItemsRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,required"`
}

func (h *AttributeHandler) HandleGetAttributes(c *fiber.Ctx) error {
	attributes, err := h.service.ListAttributes(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to retrieve attributes", err)
	}
	return c.JSON(attributes)
}

func (h *AttributeHandler) HandleGetAttribute(c *fiber.Ctx) error {
	attribute, err := h.service.GetAttribute(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Failed to retrieve attribute", err)
	}
	return c.JSON(attribute)
}

func (h *AttributeHandler) HandleCreateAttribute(c *fiber.Ctx) error {
	var req AttributeRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid attribute", err)
	}

	attribute, err := h.service.CreateAttribute(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, "Could not create attribute", err)
	}
	return c.Status(fiber.StatusCreated).JSON(attribute)
}

func (h *AttributeHandler) HandleUpdateAttribute(c *fiber.Ctx) error {
	var req AttributeRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid attribute", err)
	}

	attribute, err := h.service.UpdateAttribute(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return respondError(c, "Could not update attribute", err)
	}
	return c.JSON(attribute)
}

func (h *AttributeHandler) HandleDeleteAttribute(c *fiber.Ctx) error {
	if err := h.service.DeleteAttribute(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete attribute", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetAttributeItems lists the items of an attribute; 204 when it has none.
func (h *AttributeHandler) HandleGetAttributeItems(c *fiber.Ctx) error {
	items, err := h.service.ListAttributeItems(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Failed to retrieve attribute items", err)
	}
	if len(items) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(items)
}

func (h *AttributeHandler) HandleCreateAttributeItems(c *fiber.Ctx) error {
	var req CreateAttributeItemsRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid attribute items", err)
	}

	items, err := h.service.CreateAttributeItems(c.UserContext(), req.AttributeID, req.Items)
	if err != nil {
		return respondError(c, "Could not create attribute items", err)
	}
	return c.Status(fiber.StatusCreated).JSON(items)
}

func (h *AttributeHandler) HandleUpdateAttributeItem(c *fiber.Ctx) error {
	var req UpdateAttributeItemRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid attribute item", err)
	}

	item, err := h.service.UpdateAttributeItem(c.UserContext(), c.Params("id"), req.Value)
	if err != nil {
		return respondError(c, "Could not update attribute item", err)
	}
	return c.JSON(item)
}

func (h *AttributeHandler) HandleDeleteAttributeItem(c *fiber.Ctx) error {
	if err := h.service.DeleteAttributeItem(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete attribute item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteAttributeItems deletes several items and reports how many were removed.
func (h *AttributeHandler) HandleDeleteAttributeItems(c *fiber.Ctx) error {
	var req DeleteAttributeItemsRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid request", err)
	}

	deleted, err := h.service.DeleteAttributeItems(c.UserContext(), req.ItemIDs)
	if err != nil {
		return respondError(c, "Could not delete attribute items", err)
	}
	return c.JSON(fiber.Map{
		"message": "Attribute items deleted",
		"deleted": deleted,
	})
}
