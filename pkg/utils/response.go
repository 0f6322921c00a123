package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// The wire shapes here are fixed by the frontend data provider: success bodies
// are the raw document or array, errors carry a "message", and list responses
// advertise the pre-pagination total in x-total-count.

func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// ErrorDetail is used for store and upstream failures, where the underlying
// error text is passed through to the caller.
func ErrorDetail(c *fiber.Ctx, status int, message string, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func ListWithTotal(c *fiber.Ctx, data interface{}, total int64) error {
	c.Set("x-total-count", strconv.FormatInt(total, 10))
	return c.Status(fiber.StatusOK).JSON(data)
}
