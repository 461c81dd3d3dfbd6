package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"snapgram-backend/infrastructure/config"
	pkgerrors "snapgram-backend/pkg/errors"
)

const defaultContentType = "application/octet-stream"

// MinioBlobStore stores uploaded images in an S3-compatible bucket and
// returns stable retrievable URLs.
type MinioBlobStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewMinioBlobStore creates a blob store client from configuration.
func NewMinioBlobStore(cfg config.BlobConfig, logger *zap.Logger) (*MinioBlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob store client: %w", err)
	}

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioBlobStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}, nil
}

// Upload stores the object and returns the URL it is retrievable from.
func (s *MinioBlobStore) Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectPath, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("Failed to upload object",
			zap.Error(err),
			zap.String("object", objectPath),
		)
		return "", pkgerrors.NewExternalError("blob store", err)
	}

	s.logger.Debug("Object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("object", objectPath),
	)
	return s.publicBaseURL + "/" + objectPath, nil
}

// UploadPath builds the object path for an upload scoped to its owner.
// The timestamp keeps repeated uploads of the same filename distinct.
func UploadPath(kind, ownerID, filename string, now time.Time) string {
	return fmt.Sprintf("uploads/%s/%s/%d_%s", kind, ownerID, now.UnixNano(), path.Base(filename))
}
