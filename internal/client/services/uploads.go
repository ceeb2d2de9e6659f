package services

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

const defaultUploadFolder = "profile-pictures"

// UploadService moves images to and from the backend's blob store. Images go
// up base64-encoded inside a JSON body; the backend owns the store
// credentials.
type UploadService interface {
	UploadImage(ctx context.Context, jpeg []byte, folder string) (*models.UploadedImage, error)
	DeleteImage(ctx context.Context, publicID string) error
}

type uploadService struct {
	api api.Client
	log logging.Logger
}

func NewUploadService(apiClient api.Client, log logging.Logger) UploadService {
	return &uploadService{
		api: apiClient,
		log: log.With("component", "uploads"),
	}
}

func (s *uploadService) UploadImage(ctx context.Context, jpeg []byte, folder string) (*models.UploadedImage, error) {
	if folder == "" {
		folder = defaultUploadFolder
	}
	body := map[string]string{
		"image":  "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg),
		"folder": folder,
	}
	var img models.UploadedImage
	if err := s.api.Do(ctx, http.MethodPost, endpointUploadImage, body, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *uploadService) DeleteImage(ctx context.Context, publicID string) error {
	body := map[string]string{"publicId": publicID}
	return s.api.Do(ctx, http.MethodPost, endpointUploadImageDelete, body, nil)
}
