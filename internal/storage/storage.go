// Package storage is the object storage gateway used for profile and recipe
// photos.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
)

const (
	BucketProfilePhotos = "fotoPerfil"
	BucketRecipePhotos  = "fotosReceitas"
)

// Storage uploads are all-or-nothing per object. Callers uploading several
// objects in one workflow should go through a Tracker.
type Storage interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}

// Object is one uploaded file as received from a multipart form.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
}

// ObjectKey builds "<owner>/<unix-millis>_<filename>". The filename is
// reduced to its base name so clients cannot escape the owner prefix.
func ObjectKey(owner string, filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s/%d_%s", owner, now.UnixMilli(), name)
}

// New builds the driver selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3(ctx, S3Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		}, BucketProfilePhotos, BucketRecipePhotos)
	case "local", "":
		return NewLocal(cfg.StorageLocalRoot, cfg.StoragePublicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
