package s3

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"scholardocs/internal/shared/storage/object"
	"scholardocs/internal/shared/util"
)

// Store implements object.Store using Amazon S3 with presigned GET URLs.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	prefix  string
	ttl     time.Duration
	now     func() time.Time
}

// New creates a new S3-backed object store.
func New(ctx context.Context, region, bucket, prefix string, ttl time.Duration) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	if ttl <= 0 {
		ttl = object.SignedURLTTL
	}
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		prefix:  normalizePrefix(prefix),
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Upload puts the local file under a timestamp-prefixed key and returns the
// key plus a presigned read URL.
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

	key := applyPrefix(s.prefix, fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizedName))

	input := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 f,
		ContentType:          aws.String(mimeType),
		ACL:                  s3types.ObjectCannedACLPrivate,
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", "", fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
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
	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return out.URL, nil
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanKey := strings.TrimLeft(key, "/")
	if prefix == "" {
		return cleanKey
	}
	return prefix + "/" + cleanKey
}

var _ object.Store = (*Store)(nil)
