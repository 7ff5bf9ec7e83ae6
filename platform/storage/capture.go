// Package storage provides the raw-capture archive backed by MinIO.
// Each scan's opaque source payload is archived so OCR output, browser
// captures and platform exports can be replayed or audited later.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/msoyaph/nexscout-sub003/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// CaptureArchive stores raw scan payloads in an object storage bucket,
// keyed by user and scan id.
type CaptureArchive struct {
	client *minio.Client
	bucket string
}

// NewCaptureArchive creates a MinIO-backed capture archive.
func NewCaptureArchive(cfg config.StorageConfig) (*CaptureArchive, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &CaptureArchive{
		client: client,
		bucket: cfg.GetMinioBucketCaptures(),
	}, nil
}

// EnsureBucketExists creates the capture bucket if it doesn't exist.
func (a *CaptureArchive) EnsureBucketExists(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}

	return nil
}

func captureKey(userID, scanID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.json", userID, scanID)
}

// Store archives a raw source payload for a scan.
func (a *CaptureArchive) Store(ctx context.Context, userID, scanID uuid.UUID, payload []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, captureKey(userID, scanID),
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to archive capture for scan %s: %w", scanID, err)
	}
	return nil
}

// Fetch retrieves an archived payload for a scan.
func (a *CaptureArchive) Fetch(ctx context.Context, userID, scanID uuid.UUID) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, captureKey(userID, scanID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capture for scan %s: %w", scanID, err)
	}
	defer obj.Close()

	return io.ReadAll(obj)
}
