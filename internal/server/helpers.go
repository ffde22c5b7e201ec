package server

import (
	"errors"

	"redesocial/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed page/size query parameters. Pages are 0-based;
// out-of-range pages yield empty results downstream, never errors.
type Pagination struct {
	Page int
	Size int
}

const maxPageSize = 100

// parsePagination extracts page and size query parameters with the given default size.
func parsePagination(c *fiber.Ctx, defaultSize int) Pagination {
	page := c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}

	size := c.QueryInt("size", defaultSize)
	if size <= 0 {
		size = defaultSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return Pagination{Page: page, Size: size}
}

// requireUserID reads the authenticated user id from Locals. On failure it
// writes a 401 JSON response and returns errResponseWritten.
func (s *Server) requireUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
		return "", errResponseWritten
	}
	return userID, nil
}

// requireParam reads a non-empty route parameter. On failure it writes a 400
// JSON response and returns errResponseWritten.
func (s *Server) requireParam(c *fiber.Ctx, param string) (string, error) {
	value := c.Params(param)
	if value == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing "+param+" parameter"))
		return "", errResponseWritten
	}
	return value, nil
}

// respondError maps an application error to its HTTP status and writes the
// standardized error body.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.HTTPStatus(err), err)
}
