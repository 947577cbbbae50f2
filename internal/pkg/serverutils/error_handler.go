package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"counseling-userservice-be/internal/pkg/apperr"
)

// ErrorHandlerMiddleware converts domain errors bubbling out of handlers into
// consistent HTTP responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		status := statusForKind(apperr.KindOf(err))
		return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindInvalidState:
		return fiber.StatusUnprocessableEntity
	case apperr.KindBadRequest:
		return fiber.StatusBadRequest
	case apperr.KindGateway:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
