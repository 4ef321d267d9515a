package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler. Typed client
// errors expose their message and detail; anything else becomes a generic
// 500 and is logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindInternal {
		return c.Status(ae.Status()).JSON(dto.ErrorResponse{
			Error:   true,
			Message: ae.Message,
			Detail:  ae.Detail,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: true, Message: fe.Message})
	}

	requestID, _ := c.Locals("requestid").(string)
	slog.Error("unhandled server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Internal server error",
	})
}

func invalidBody() error {
	return apperr.BadRequest("Invalid request body")
}

func invalidQuery(name string) error {
	return apperr.BadRequest("invalid " + name)
}
