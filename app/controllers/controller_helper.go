package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam reads a numeric route parameter. Zero means invalid.
func parseIDParam(c *fiber.Ctx, name string) uint {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}
