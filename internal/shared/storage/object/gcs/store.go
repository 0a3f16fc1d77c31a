package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"scholardocs/internal/shared/storage/object"
	"scholardocs/internal/shared/util"
)

// Store implements object.Store using Google Cloud Storage.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a new GCS-backed object store using ambient credentials.
func New(ctx context.Context, bucket, prefix string, ttl time.Duration) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	if ttl <= 0 {
		ttl = object.SignedURLTTL
	}
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Upload writes the local file to the bucket and returns the key plus a
// signed read URL.
func (s *Store) Upload(ctx context.Context, localPath, desiredName, mimeType string) (string, string, error) {
	sanitizedName, err := util.SanitizeFileName(desiredName)
	if err != nil {
		return "", "", fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", "", fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	key := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizedName)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("gcs write bucket=%s key=%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("gcs close bucket=%s key=%s: %w", s.bucket, key, err)
	}

	url, err := s.SignedURL(ctx, key)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// SignedURL mints a fresh time-limited read URL for a stored object.
func (s *Store) SignedURL(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url, err := s.client.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: s.now().Add(s.ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("gcs sign bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return url, nil
}

var _ object.Store = (*Store)(nil)
