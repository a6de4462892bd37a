package minio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cropgenius-api/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient wraps the MinIO client for crop scan image storage.
type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		slog.Warn("invalid MINIO_SECURE value, defaulting to false", "value", cfg.MinioSecure)
		isSecure = false
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := minioClient.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}

	mc := &MinioClient{client: minioClient, config: cfg}
	if err := mc.ensureBucket(ctx, cfg.ScanBucket); err != nil {
		return nil, fmt.Errorf("failed to ensure scan bucket: %w", err)
	}

	slog.Info("connected to MinIO", "endpoint", cfg.MinioURL, "bucket", cfg.ScanBucket)
	return mc, nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	if err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: mc.config.MinioLocation,
	}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucketName, err)
	}
	return nil
}

// UploadScanImage stores one uploaded crop photo and returns its resource
// URL. The object name embeds the owning user for traceability.
func (mc *MinioClient) UploadScanImage(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if mc == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	} else if contentType == "image/webp" {
		ext = "webp"
	}
	objectName := fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)

	_, err := mc.client.PutObject(ctx, mc.config.ScanBucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload scan image: %w", err)
	}

	return strings.TrimSuffix(mc.config.MinioResourceURL, "/") + "/" + mc.config.ScanBucket + "/" + objectName, nil
}
