package serverutils

import (
	"errors"

	"health-portal-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to the HTTP status the API reports for it.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// publicMessage hides internal causes from clients.
func publicMessage(err error, status int) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Message
	}
	if status == fiber.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// ErrorHandler is installed as fiber's ErrorHandler so errors returned from
// handlers become the standard error envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status := StatusFor(err)
	resp := ErrorResponse(status, publicMessage(err, status))
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		resp.Error = string(appErr.Kind)
	}
	return ctx.Status(status).JSON(resp)
}

// ErrorHandlerMiddleware handles errors returned by downstream handlers
// before they reach fiber's default handler.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}
