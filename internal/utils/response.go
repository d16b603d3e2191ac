package utils

import (
	apperrors "goldnest/internal/errors"
	"goldnest/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// Message sends a status with a {"message"} body.
func Message(c *fiber.Ctx, status int, message string) error {
	return Respond(c, status, fiber.Map{"message": message})
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"message": message, "code": "BAD_REQUEST"})
}

// Error maps err to its status. Domain errors carry their message and code;
// anything else is logged and answered with fallback.
func Error(c *fiber.Ctx, err error, fallback string) error {
	if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
		return Respond(c, apperrors.HTTPStatus(err), fiber.Map{"message": de.Message, "code": de.Code})
	}

	logging.Log.WithError(err).WithField("path", c.Path()).Error(fallback)
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"message": fallback, "code": "SERVER_ERROR"})
}
