// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/models"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the
// given default limit. The limit is clamped server-side; a negative
// offset is rejected.
func parsePagination(c *fiber.Ctx, defaultLimit int) (Pagination, error) {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		return Pagination{}, models.NewValidationError("Offset must not be negative")
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}, nil
}

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param, label string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + label)
	}
	return uint(id), nil
}

// optionalUserID returns the authenticated user's ID when the request
// carried a valid token, or 0 for anonymous requests.
func optionalUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
