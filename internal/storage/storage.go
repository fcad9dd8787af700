// Package storage holds binary assets (property photos, agent avatars,
// branding images) in an S3-compatible bucket. Object keys embed the
// owning entity id and an upload timestamp to avoid collisions; download
// URLs are long-lived presigned URLs returned at upload time.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"real-estate-crm/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Key prefixes per asset kind.
const (
	PrefixProperties = "properties"
	PrefixAgents     = "agents"
	PrefixBranding   = "branding"
)

// Service uploads and signs objects in one bucket.
type Service struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

// New connects to the object store and ensures the bucket exists.
func New(ctx context.Context, cfg config.StorageConfig) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &Service{
		client:    client,
		bucket:    cfg.Bucket,
		urlExpiry: cfg.URLExpiry(),
	}, nil
}

// ObjectKey builds the collision-free key for an upload:
// {prefix}/{entityID}/{unix-nanos}_{filename}.
func ObjectKey(prefix, entityID, filename string) string {
	return fmt.Sprintf("%s/%s/%d_%s", prefix, entityID, time.Now().UnixNano(), path.Base(filename))
}

// Upload stores the object and returns its key plus a presigned GET URL.
// If a follow-up document write fails, the stored object is orphaned;
// there is no compensation step.
func (s *Service) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.SignedURL(ctx, key)
}

// SignedURL returns a presigned download URL for an existing object.
func (s *Service) SignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlExpiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Remove deletes an object.
func (s *Service) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
