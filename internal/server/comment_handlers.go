package server

import (
	"github.com/gofiber/fiber/v2"

	"redesocial/internal/models"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), postID, userID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	comments, err := s.commentService.ListByPost(c.UserContext(), postID, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
