package devserver

import (
	"fmt"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 25 << 20 // 25 MB

// UploadFile handles POST /api/v1/files (multipart, field name "file").
// The reference server records metadata only; the returned file_url is a
// synthetic path rather than real blob storage.
func (s *Server) UploadFile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Multipart field 'file' is required"))
	}
	if header.Size > maxUploadSize {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File exceeds the 25 MB upload limit"))
	}

	file := &models.File{
		UUID:        uuid.New().String(),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		UploaderID:  userID,
	}
	file.URL = fmt.Sprintf("/uploads/%s/%s", file.UUID, header.Filename)

	if err := s.db.Create(file).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}
