package object

import (
	"context"
	"time"
)

// SignedURLTTL is how long minted read URLs stay valid.
const SignedURLTTL = time.Hour

// Store uploads local files to a durable backend and mints read access URLs.
//
// Upload places the file under a collision-resistant, timestamp-prefixed key,
// marked private, and returns the stable storage key together with a
// time-limited signed URL. The key is what callers should persist; a fresh
// URL can be minted from it at any time via SignedURL.
type Store interface {
	Upload(ctx context.Context, localPath, desiredName, mimeType string) (key, url string, err error)
	SignedURL(ctx context.Context, key string) (string, error)
}
