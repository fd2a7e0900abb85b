package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/smithy-go"
	"github.com/gofiber/storage/s3/v2"
	"github.com/google/uuid"
)

type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Bucket is the subset of the fiber S3 storage the object store needs.
type Bucket interface {
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// ObjectStorage uploads files under a folder prefix and builds their public URLs.
type ObjectStorage struct {
	bucket Bucket
	cfg    Config
}

func NewS3Bucket(cfg Config) *ObjectStorage {
	bucket := s3.New(s3.Config{
		Endpoint: cfg.Endpoint,
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Credentials: s3.Credentials{
			AccessKey:       cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return NewObjectStorage(bucket, cfg)
}

func NewObjectStorage(bucket Bucket, cfg Config) *ObjectStorage {
	return &ObjectStorage{bucket: bucket, cfg: cfg}
}

// Upload stores data under folder/<uuid><ext> and returns the storage path and public URL.
func (s *ObjectStorage) Upload(ctx context.Context, folder, ext string, data []byte) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), ext)
	if err := s.bucket.Set(key, data, 0); err != nil {
		return "", "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, s.URL(key), nil
}

// Delete removes the object at path. An object that is already gone counts as deleted.
func (s *ObjectStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.bucket.Delete(path); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// URL builds the public URL of a stored object.
func (s *ObjectStorage) URL(key string) string {
	// For MinIO/S3, construct the public URL
	// Format: http(s)://endpoint/bucket/key
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}

	if s.cfg.Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}

	return key
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
