package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioBlobStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

// NewMinioBlobStore creates the client and ensures the bucket exists
func NewMinioBlobStore(ctx context.Context, endpoint, bucket, accessKey, secretKey string, useSSL bool) (*MinioBlobStore, error) {
	store, err := newMinioClient(endpoint, bucket, accessKey, secretKey, useSSL)
	if err != nil {
		return nil, err
	}
	if err := store.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s exists: %w", bucket, err)
	}
	return store, nil
}

func newMinioClient(endpoint, bucket, accessKey, secretKey string, useSSL bool) (*MinioBlobStore, error) {
	if endpoint == "" || bucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioBlobStore{client: client, bucket: bucket, endpoint: endpoint, secure: useSSL}, nil
}

func (m *MinioBlobStore) ensureBucketExists(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	slog.Info("created bucket", "bucket", m.bucket)
	return nil
}

func (m *MinioBlobStore) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (m *MinioBlobStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	object, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer func() {
		_ = object.Close()
	}()

	// the object is fetched lazily, errors surface on the first read
	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (m *MinioBlobStore) ObjectURL(key string) string {
	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, url.PathEscape(key))
}

func (m *MinioBlobStore) Close() error {
	return nil
}
