package services

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/sportmania/sportmania-backend/internal/models"
)

const profilePhotoFolder = "Sport Mania App User Profile"

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

// UploadImage uploads a profile photo to Cloudinary. source may be a
// base64 data URI or a fetchable URL (both accepted by the upload API).
func (s *CloudinaryService) UploadImage(ctx context.Context, source string) (*models.Photo, error) {
	result, err := s.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder:       profilePhotoFolder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return &models.Photo{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Bytes:    result.Bytes,
	}, nil
}
