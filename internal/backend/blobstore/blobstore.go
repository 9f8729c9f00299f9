package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jo-hoe/goschedule/internal/backend/awsclient"
)

const (
	TypeS3         = "s3"
	TypeMinio      = "minio"
	TypeFilesystem = "filesystem"
)

// ErrObjectNotFound is returned by GetObject when no object exists for the key
var ErrObjectNotFound = errors.New("object not found")

// BlobStore keeps the raw uploaded bytes
type BlobStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	// ObjectURL builds the locator of an object without contacting the store
	ObjectURL(key string) string
	Close() error
}

type Config struct {
	Type   string
	Bucket string
	// Endpoint points s3 at a compatible service and is required for minio
	Endpoint string
	// Path is the root directory of the filesystem store
	Path         string
	UseSSL       bool
	UsePathStyle bool
	AWS          awsclient.Credentials
}

func NewBlobStore(ctx context.Context, config Config) (BlobStore, error) {
	slog.Info("initializing blob store", "type", config.Type, "bucket", config.Bucket)
	switch config.Type {
	case TypeS3:
		awsConfig, err := awsclient.LoadConfig(ctx, config.AWS)
		if err != nil {
			return nil, err
		}
		return NewS3BlobStore(awsConfig, config.Bucket, config.Endpoint, config.UsePathStyle)
	case TypeMinio:
		return NewMinioBlobStore(ctx, config.Endpoint, config.Bucket, config.AWS.AccessKeyID, config.AWS.SecretAccessKey, config.UseSSL)
	case TypeFilesystem:
		return NewFilesystemBlobStore(config.Path)
	default:
		return nil, fmt.Errorf("unsupported blob store: %s", config.Type)
	}
}

// NewObjectKey returns a fresh random key that keeps the lower-cased
// extension of the original filename, e.g. "photo.JPG" -> "<uuid>.jpg"
func NewObjectKey(filename string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String() + strings.ToLower(filepath.Ext(filename)), nil
}
