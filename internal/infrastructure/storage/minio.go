package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"blogcms-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStorage handles media objects (images, video posters) referenced
// from post content, backed by MinIO.
type MediaStorage struct {
	client *minio.Client
	bucket string
}

// NewMediaStorage initializes the MinIO client and ensures the bucket exists
func NewMediaStorage(cfg config.MinIOConfig) (*MediaStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MediaStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Upload stores a media object and returns its public URL
// key: object path inside the bucket (e.g. posts/<id>/cover.jpg)
func (s *MediaStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		reader,
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucket, key), nil
}

// ObjectExists reports whether the object behind a media URL is still in
// the bucket. URLs pointing outside our bucket are not ours to verify.
func (s *MediaStorage) ObjectExists(ctx context.Context, mediaURL string) (bool, error) {
	key, ok := s.objectKeyFromURL(mediaURL)
	if !ok {
		return true, nil
	}

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Delete removes a media object
func (s *MediaStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// objectKeyFromURL extracts the bucket-relative key from an uploaded URL
func (s *MediaStorage) objectKeyFromURL(mediaURL string) (string, bool) {
	parsed, err := url.Parse(mediaURL)
	if err != nil {
		return "", false
	}

	prefix := "/" + s.bucket + "/"
	if !strings.HasPrefix(parsed.Path, prefix) {
		return "", false
	}
	return strings.TrimPrefix(parsed.Path, prefix), true
}
