package response

import "github.com/gofiber/fiber/v2"

// Envelope type discriminator values, mirroring the upstream contract:
// 0 for success, 1 for failure.
const (
	TypeSuccess = 0
	TypeFailure = 1
)

// Response is the standard affiliate-panel envelope
type Response struct {
	Data      interface{} `json:"data"`
	IsSuccess bool        `json:"isSuccess"`
	Message   *string     `json:"message"`
	Type      int         `json:"type"`
}

// Success sends a success envelope
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Data:      data,
		IsSuccess: true,
		Message:   optional(message),
		Type:      TypeSuccess,
	})
}

// Created sends a 201 created envelope
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Data:      data,
		IsSuccess: true,
		Message:   optional(message),
		Type:      TypeSuccess,
	})
}

// Error sends an error envelope
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Data:      nil,
		IsSuccess: false,
		Message:   optional(message),
		Type:      TypeFailure,
	})
}

// BadRequest sends a 400 bad request envelope
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized envelope
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden envelope
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found envelope
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// BadGateway sends a 502 envelope for upstream failures
func BadGateway(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, message)
}

// InternalServerError sends a 500 internal server error envelope
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func optional(message string) *string {
	if message == "" {
		return nil
	}
	return &message
}
