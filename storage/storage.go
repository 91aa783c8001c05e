package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"feedgram/models"
)

const (
	maxImageSize = 5 * 1024 * 1024
	maxVideoSize = 50 * 1024 * 1024
)

// Uploader turns an uploaded file into a durable URL. Handlers depend on the
// interface so tests can substitute a stub for the Cloudinary client.
type Uploader interface {
	Upload(ctx context.Context, file multipart.File, folder, publicID string) (string, error)
}

// CloudinaryUploader stores files in Cloudinary, like the rest of the media
// in this project.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file multipart.File, folder, publicID string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// UniqueFileName builds a collision-free stored name keeping the original
// extension: <uuid>_<unix-millis><ext>.
func UniqueFileName(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().UnixMilli(), ext)
}

// ValidateMediaFile checks the MIME whitelist and size limits: images up to
// 5MB, videos up to 50MB. Anything else is rejected at the boundary.
func ValidateMediaFile(mimeType string, size int64) bool {
	switch models.MediaTypeOf(mimeType) {
	case models.MediaTypeImage:
		return size <= maxImageSize
	case models.MediaTypeVideo:
		return size <= maxVideoSize
	}
	return false
}
