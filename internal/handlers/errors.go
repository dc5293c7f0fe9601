package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bazaar/internal/identity"
)

// statusByKind is the single mapping from identity error kinds to HTTP
// status codes. Call sites never pick statuses themselves.
var statusByKind = map[identity.Kind]int{
	identity.KindValidation:        fiber.StatusBadRequest,
	identity.KindUnauthenticated:   fiber.StatusUnauthorized,
	identity.KindForbidden:         fiber.StatusForbidden,
	identity.KindNotFound:          fiber.StatusNotFound,
	identity.KindConflict:          fiber.StatusConflict,
	identity.KindInvalidState:      fiber.StatusBadRequest,
	identity.KindExpired:           fiber.StatusBadRequest,
	identity.KindInvalidCredential: fiber.StatusBadRequest,
	identity.KindInvalidOrExpired:  fiber.StatusBadRequest,
	identity.KindInternal:          fiber.StatusInternalServerError,
}

// ErrorHandler is the app-wide fiber error handler. Identity errors map
// through statusByKind; fiber errors keep their code; anything else is
// a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ie *identity.Error
	if errors.As(err, &ie) {
		status, ok := statusByKind[ie.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{"message": ie.Message})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
