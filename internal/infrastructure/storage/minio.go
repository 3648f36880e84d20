// Package storage archives acquired transcripts to object storage so an
// episode's text outlives the single working session.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/podscribe-team/podscribe/pkg/config"
)

// ArchiveClient wraps MinIO operations for the transcript archive
type ArchiveClient struct {
	client *minio.Client
	bucket string
}

// NewArchiveClient creates an archive client and ensures the bucket exists
func NewArchiveClient(cfg *config.StorageConfig) (*ArchiveClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &ArchiveClient{client: minioClient, bucket: cfg.BucketName}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return client, nil
}

func (a *ArchiveClient) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveTranscript stores the transcript text as a markdown object and
// returns the object name
func (a *ArchiveClient) ArchiveTranscript(ctx context.Context, title, text string) (string, error) {
	objectName := fmt.Sprintf("transcripts/%s-%s.md",
		sanitizeObjectName(title), time.Now().Format("20060102-150405"))

	reader := strings.NewReader(text)
	_, err := a.client.PutObject(ctx, a.bucket, objectName, reader, int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/markdown"})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}
	return objectName, nil
}

var unsafeObjectChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeObjectName(title string) string {
	name := unsafeObjectChars.ReplaceAllString(title, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "transcript"
	}
	if len(name) > 120 {
		name = name[:120]
	}
	return name
}
