package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	applog "bookstore/internal/log"
	"bookstore/internal/services"
	"bookstore/internal/validate"
)

// fail maps a service error onto a status and a JSON message. Unknown errors
// are logged and answered with a generic 500 so internals never leak.
func fail(c *fiber.Ctx, action, noun string, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "field": ve.Field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ve.Error(), "field": ve.Field})
	case errors.Is(err, validate.ErrFileTooLarge):
		applog.Security(c, "upload.reject", map[string]any{"action": action, "reason": err.Error()})
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, validate.ErrInvalidFileType),
		errors.Is(err, validate.ErrUnexpectedField),
		errors.Is(err, services.ErrMissingRequiredFile):
		applog.Security(c, "upload.reject", map[string]any{"action": action, "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": noun + " not found"})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Access denied. No token provided."})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied. Admin only."})
	}
	c.Status(fiber.StatusInternalServerError)
	applog.Error(c, action+".fail", err, nil)
	return c.JSON(fiber.Map{"message": "Something went wrong. Please try again."})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}
