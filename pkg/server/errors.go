package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-camview/pkg/geometry"
	"github.com/teslashibe/go-camview/pkg/preview"
	"github.com/teslashibe/go-camview/pkg/session"
)

// statusFor maps a session error onto an HTTP status. Errors that depend on
// the preview lifecycle are conflicts; malformed or unsupported requests are
// unprocessable.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, geometry.ErrDegenerateBounds),
		errors.Is(err, preview.ErrNoSurface),
		errors.Is(err, preview.ErrNotAttached):
		return fiber.StatusConflict
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// errorHandler keeps every error response in the {"error": ...} shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
