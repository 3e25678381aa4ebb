package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"pipespec/internal/app/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MaxLogoSize - предельный размер логотипа проекта.
const MaxLogoSize = 2 << 20

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

type MinIOClient struct {
	client     *minio.Client
	bucketName string
	urlTTL     time.Duration
}

// NewMinIOClient создает клиент для MinIO и бакет, если его нет
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", cfg.Bucket)
	}

	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
		urlTTL:     time.Hour,
	}, nil
}

// LogoObjectName строит имя объекта для логотипа проекта.
func LogoObjectName(projectID uint, originalFilename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%q: %w", ext, ErrUnsupportedImage)
	}
	name := fmt.Sprintf("projects/%d/logo_%s%s", projectID, uuid.NewString()[:8], ext)
	return name, contentType, nil
}

// UploadLogo загружает логотип проекта и возвращает имя объекта
func (m *MinIOClient) UploadLogo(ctx context.Context, projectID uint, filename string, r io.Reader, size int64) (string, error) {
	objectName, contentType, err := LogoObjectName(projectID, filename)
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucketName, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	logrus.WithField("object", objectName).Info("logo uploaded")
	return objectName, nil
}

// DeleteObject удаляет объект из MinIO
func (m *MinIOClient) DeleteObject(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logrus.WithField("object", objectName).Info("object deleted")
	return nil
}

// PresignedURL возвращает временную ссылку на объект
func (m *MinIOClient) PresignedURL(ctx context.Context, objectName string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucketName, objectName, m.urlTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
