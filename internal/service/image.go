package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feastly/backend/config"
)

// ImageService stores user-uploaded recipe images in the public S3
// bucket and hands back the public URL for the recipe row.
type ImageService struct {
	s3Config *config.S3Config
	logger   *zap.Logger
}

var _ IImageService = (*ImageService)(nil)

func NewImageService(s3Config *config.S3Config, logger *zap.Logger) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		logger:   logger,
	}
}

// Upload writes the image under a random key, keeping the original
// extension, and returns the public URL.
func (s *ImageService) Upload(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	key := fmt.Sprintf("recipes/%s%s", uuid.NewString(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.s3Config.PublicURL(key)
	s.logger.Info("uploaded recipe image", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}
