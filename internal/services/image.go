package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const MaxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// StoredImage is an uploaded object and the URL clients load it from.
type StoredImage struct {
	Key string
	URL string
}

type ImageService interface {
	UploadRecipeImage(dbc dbctx.Context, data string) (StoredImage, error)
	DeleteRecipeImage(ctx context.Context, key string)
}

type imageService struct {
	log           *logger.Logger
	bucketService gcp.BucketService
}

func NewImageService(log *logger.Logger, bucketService gcp.BucketService) ImageService {
	return &imageService{log: log.With("service", "ImageService"), bucketService: bucketService}
}

func (is *imageService) UploadRecipeImage(dbc dbctx.Context, data string) (StoredImage, error) {
	raw, format, err := DecodeDataURI(data)
	if err != nil {
		return StoredImage{}, err
	}
	key := fmt.Sprintf("recipes/%s.%s", uuid.NewString(), imageExtensions[format])
	if err := is.bucketService.UploadFile(dbc, gcp.BucketCategoryRecipeImage, key, bytes.NewReader(raw)); err != nil {
		return StoredImage{}, fmt.Errorf("upload recipe image: %w", err)
	}
	return StoredImage{Key: key, URL: is.bucketService.GetPublicURL(gcp.BucketCategoryRecipeImage, key)}, nil
}

// DeleteRecipeImage removes an object that is no longer referenced. Failures are only logged.
func (is *imageService) DeleteRecipeImage(ctx context.Context, key string) {
	if strings.TrimSpace(key) == "" {
		return
	}
	if err := is.bucketService.DeleteFile(dbctx.Context{Ctx: ctx}, gcp.BucketCategoryRecipeImage, key); err != nil {
		is.log.Warn("failed to delete recipe image (ignored)", "key", key, "error", err)
	}
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>" and checks the payload really is an
// image in one of the accepted formats. It returns the bytes and the detected format name.
func DecodeDataURI(data string) ([]byte, string, error) {
	invalid := apierr.BadRequest("invalid_image", "image: upload a valid image")

	data = strings.TrimSpace(data)
	header, payload, ok := strings.Cut(data, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return nil, "", invalid
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return nil, "", apierr.BadRequest("image_too_large", fmt.Sprintf("image: file exceeds %d bytes", MaxImageBytes))
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", invalid
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", invalid
	}
	if _, ok := imageExtensions[format]; !ok {
		return nil, "", invalid
	}
	return raw, format, nil
}
