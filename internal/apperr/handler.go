package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps domain errors to the response envelope. Unexpected
// errors are logged with their cause but the client only sees a generic
// message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var domain *Error
	if errors.As(err, &domain) {
		status := fiber.StatusInternalServerError
		message := domain.Message

		switch domain.Kind {
		case KindValidation, KindState:
			status = fiber.StatusUnprocessableEntity
		case KindAuthorization:
			status = fiber.StatusForbidden
		case KindNotFound:
			status = fiber.StatusNotFound
		default:
			log.Printf("[Error] %s %s: %v", c.Method(), c.Path(), err)
			message = "an unexpected error occurred"
		}

		return c.Status(status).JSON(fiber.Map{
			"status":  "error",
			"message": message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"status":  "error",
			"message": fiberErr.Message,
		})
	}

	log.Printf("[Error] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": "an unexpected error occurred",
	})
}
