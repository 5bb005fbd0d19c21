package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vidtube/backend/internal/config"
)

// Kind names an object prefix within the media bucket.
type Kind string

const (
	KindVideo     Kind = "videos"
	KindThumbnail Kind = "thumbnails"
	KindAvatar    Kind = "avatars"
	KindCover     Kind = "covers"
)

// MediaStore provides object storage for uploaded media
type MediaStore struct {
	client     *minio.Client
	bucketName string
}

// New creates a new media store and ensures the bucket exists
func New(cfg config.StorageConfig) (*MediaStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MediaStore{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

// ObjectName builds a unique object key for an upload, preserving the
// original file extension.
func ObjectName(kind Kind, filename string) string {
	return fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), filepath.Ext(filename))
}

// Upload stores a media object
func (s *MediaStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	return nil
}

// Delete removes a media object. Deleting a missing object is not an error,
// so replacing media and cleaning up after it can retry safely.
func (s *MediaStore) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// GetURL returns a presigned URL for an object
func (s *MediaStore) GetURL(ctx context.Context, objectName string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, objectName, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate URL: %w", err)
	}

	return url.String(), nil
}

// ContentType returns the content type based on file extension
func ContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
