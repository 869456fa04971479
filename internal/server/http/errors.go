package httpserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/and161185/blog-api/internal/errs"
)

const msgInternal = "Internal server error"

type envelope struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}

type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// reply writes a success envelope.
func reply(c *fiber.Ctx, status int, msg string, result any) error {
	return c.Status(status).JSON(envelope{Message: msg, Result: result})
}

// statusOf maps an error to its HTTP status and client message.
func statusOf(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	var ce *errs.ConflictError
	if errors.As(err, &ce) {
		return fiber.StatusBadRequest, ce.Error()
	}

	msg := errs.Message(err)
	or := func(def string) string {
		if msg != "" {
			return msg
		}
		return def
	}
	switch {
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusBadRequest, or("Bad request")
	case errors.Is(err, errs.ErrAlreadyExists):
		return fiber.StatusBadRequest, or("Key already exists")
	case errors.Is(err, errs.ErrEmailAlreadyExists):
		return fiber.StatusForbidden, or("Forbidden")
	case errors.Is(err, errs.ErrInvalidCredentials),
		errors.Is(err, errs.ErrUnauthorized),
		errors.Is(err, errs.ErrInvalidToken),
		errors.Is(err, errs.ErrNotOwner):
		return fiber.StatusUnauthorized, or("Unauthorized")
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound, or("Not found")
	}
	return fiber.StatusInternalServerError, msgInternal
}

// ErrorHandler renders every error as {message, statusCode}. Server-side
// failures are logged with their cause and answered with a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := statusOf(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(errorBody{Message: msg, StatusCode: status})
	}
}
