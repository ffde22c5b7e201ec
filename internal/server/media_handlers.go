package server

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"redesocial/internal/models"
)

const maxMediaBytes = 10 << 20 // 10 MiB

// UploadMedia handles POST /api/media
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A 'file' form field is required"))
	}
	if fileHeader.Size > maxMediaBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File exceeds the 10MB limit"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	url, err := s.mediaStore.Store(c.UserContext(), data, fileHeader.Header.Get("Content-Type"), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
