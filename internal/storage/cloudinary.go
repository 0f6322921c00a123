package storage

import (
	"context"
	"errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/dwellio/backend/internal/config"
	"github.com/dwellio/backend/pkg/logger"
)

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryClient(cfg config.CloudinaryConfig) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryClient{cld: cld}, nil
}

// Upload sends a base64 data URI or a remote URL to the media host and
// returns the durable hosted URL.
func (c *CloudinaryClient) Upload(ctx context.Context, payload string) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, payload, uploader.UploadParams{})
	if err != nil {
		logger.Error("cloudinary_upload_failed", err, nil)
		return "", err
	}
	if result.Error.Message != "" {
		err := errors.New(result.Error.Message)
		logger.Error("cloudinary_upload_rejected", err, map[string]interface{}{
			"public_id": result.PublicID,
		})
		return "", err
	}

	logger.Info("cloudinary_upload_success", map[string]interface{}{
		"public_id": result.PublicID,
		"bytes":     result.Bytes,
	})
	return result.SecureURL, nil
}
