package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path/filepath"
	"strings"

	"agoge-backend/shared/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the media storage surface used by the handlers. Logos,
// profile images and course images all go through it.
type ObjectStorage interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
}

// StorageService stores media assets in MinIO.
type StorageService struct {
	client     *minio.Client
	bucketName string
}

func NewStorageService() (*StorageService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &StorageService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *StorageService) initializeBucket() error {
	ctx := context.Background()

	log.Printf("🪣 Checking bucket: %s", s.bucketName)

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// Upload stores an object under the given key, replacing any previous
// object with the same key.
func (s *StorageService) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %v", objectKey, err)
	}
	return nil
}

// Remove deletes an object. Missing objects are not an error.
func (s *StorageService) Remove(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
}

// Object key builders, one prefix per asset kind.

func LogoObjectKey(companyID uuid.UUID, filename string) string {
	return fmt.Sprintf("company_logos/%s%s", companyID, sanitizedExt(filename))
}

func ProfileImageObjectKey(userID uuid.UUID, filename string) string {
	return fmt.Sprintf("profile_images/%s%s", userID, sanitizedExt(filename))
}

func CourseImageObjectKey(courseID uuid.UUID, filename string) string {
	return fmt.Sprintf("course_images/%s%s", courseID, sanitizedExt(filename))
}

func sanitizedExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
		return ext
	default:
		return ".png"
	}
}
