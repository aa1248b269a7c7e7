// Package storage keeps uploaded images on local disk, MinIO or S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"election-service/internal/config"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedFileType = errors.New("only image uploads are allowed")
	ErrUnknownDriver       = errors.New("unknown storage driver")
)

// FileStorage stores uploaded files and returns the URL they are served from.
type FileStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// objectName builds folder/<uuid><ext> and rejects non-image uploads.
func objectName(file *multipart.FileHeader, folder string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := imageExtensions[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, file.Filename)
	}
	if ct := file.Header.Get("Content-Type"); strings.HasPrefix(ct, "image/") {
		contentType = ct
	}
	return path.Join(folder, uuid.NewString()+ext), contentType, nil
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (FileStorage, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalStorage(cfg.UploadDir, cfg.PublicURL)
	case "minio":
		return NewMinIOStorage(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL)
	case "s3":
		return NewS3Storage(cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
