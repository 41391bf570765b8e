package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errBadBody marks request bodies that could not be decoded.
var errBadBody = errors.New("invalid request body")

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, v *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return v.Struct(dst)
}

// respondError maps an error onto a status code and the standard error body.
func respondError(c *fiber.Ctx, message string, err error) error {
	var (
		validationErrors validator.ValidationErrors
		serviceErr       *services.ValidationError
	)
	switch {
	case errors.As(err, &validationErrors):
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	case errors.As(err, &serviceErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  serviceErr.Fields,
		})
	case errors.Is(err, errBadBody):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   publicError(status, err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrAlreadyActive):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidOTP):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// publicError hides storage details from clients.
func publicError(status int, err error) string {
	switch status {
	case fiber.StatusInternalServerError:
		return "internal error"
	case fiber.StatusNotFound:
		return services.ErrNotFound.Error()
	case fiber.StatusBadRequest:
		if errors.Is(err, services.ErrInvalidOTP) {
			return services.ErrInvalidOTP.Error()
		}
	}
	return err.Error()
}
