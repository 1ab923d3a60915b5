package handler

import (
	"errors"

	"go-depot-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Shouldn't happen on protected routes
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// statusFor maps the domain error taxonomy to HTTP statuses in one
// place. Unknown errors default to 400: every domain failure is
// recoverable by adjusting inputs and resubmitting.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMaterialNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrSiteNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConcurrentModification),
		errors.Is(err, service.ErrCodeExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrSiteNameExists):
		return fiber.StatusConflict
	}
	return fiber.StatusBadRequest
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
