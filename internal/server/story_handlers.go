package server

import (
	"github.com/gofiber/fiber/v2"

	"redesocial/internal/models"
)

// CreateStory handles POST /api/stories
func (s *Server) CreateStory(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		MediaRef string `json:"media_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	story, err := s.storyService.Create(c.UserContext(), userID, req.MediaRef)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetActiveStories handles GET /api/stories/user/:id
func (s *Server) GetActiveStories(c *fiber.Ctx) error {
	userID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}

	stories, err := s.storyService.ListActive(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stories)
}

// RecordStoryView handles POST /api/stories/:id/view
func (s *Server) RecordStoryView(c *fiber.Ctx) error {
	viewerID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	storyID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.storyService.RecordView(c.UserContext(), storyID, viewerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "View recorded"})
}

// GetStoryViewers handles GET /api/stories/:id/viewers
func (s *Server) GetStoryViewers(c *fiber.Ctx) error {
	if _, err := s.requireUserID(c); err != nil {
		return nil
	}
	storyID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}

	viewers, err := s.storyService.ListViewers(c.UserContext(), storyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewers)
}
