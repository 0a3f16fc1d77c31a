package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scholardocs/internal/shared/storage/object"
	"scholardocs/internal/shared/util"
)

// Store implements object.Store on the local filesystem. It is the explicit
// degraded mode for deployments without a cloud backend: access URLs are
// file:// references with no expiry.
type Store struct {
	baseDir string
	now     func() time.Time
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// Upload copies the local file into the store under a timestamp-prefixed key.
func (s *Store) Upload(ctx context.Context, localPath, desiredName, mimeType string) (string, string, error) {
	sanitizedName, err := util.SanitizeFileName(desiredName)
	if err != nil {
		return "", "", fmt.Errorf("sanitize file name: %w", err)
	}
	_ = mimeType

	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", "", fmt.Errorf("open local file: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizedName)
	fullPath := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", "", fmt.Errorf("mkdir: %w", err)
	}

	dst, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("open file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("write body: %w", err)
	}

	url, err := s.SignedURL(ctx, key)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// SignedURL returns a file:// reference. Local URLs do not expire.
func (s *Store) SignedURL(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}

	abs, err := filepath.Abs(filepath.Join(s.baseDir, clean))
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}

var _ object.Store = (*Store)(nil)
