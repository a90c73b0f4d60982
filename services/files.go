package services

import (
	"context"
	"io"

	"mingle/client"
	"mingle/models"
)

// FileService handles attachment uploads.
type FileService struct {
	api *client.Client
}

// Upload submits one file and returns the stored record with its
// server-assigned identifier.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*models.File, error) {
	var f models.File
	if err := s.api.UploadFile(ctx, "/files", filename, contentType, r, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
