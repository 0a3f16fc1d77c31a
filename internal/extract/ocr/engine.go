// Package ocr wraps optical character recognition behind a bounded worker
// pool. Workers are a scoped resource: every acquisition is paired with a
// release, regardless of recognition outcome.
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in image files.
type Engine interface {
	Recognize(ctx context.Context, path string) (string, error)
	Close() error
}

// TesseractEngine runs recognition on a fixed-size pool of tesseract workers.
type TesseractEngine struct {
	pool chan *gosseract.Client
	size int
}

// NewTesseract creates an engine with the given number of workers for the
// given language (e.g. "eng").
func NewTesseract(language string, workers int) (*TesseractEngine, error) {
	if workers <= 0 {
		workers = 1
	}
	if language == "" {
		language = "eng"
	}

	pool := make(chan *gosseract.Client, workers)
	for i := 0; i < workers; i++ {
		client := gosseract.NewClient()
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			for len(pool) > 0 {
				(<-pool).Close()
			}
			return nil, fmt.Errorf("ocr set language %q: %w", language, err)
		}
		pool <- client
	}
	return &TesseractEngine{pool: pool, size: workers}, nil
}

// Recognize acquires a worker, runs recognition against the file, and always
// returns the worker to the pool. Empty recognized text is a valid result.
func (e *TesseractEngine) Recognize(ctx context.Context, path string) (string, error) {
	var client *gosseract.Client
	select {
	case client = <-e.pool:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { e.pool <- client }()

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("ocr set image %s: %w", path, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr recognize %s: %w", path, err)
	}
	return text, nil
}

// Close tears down all pooled workers.
func (e *TesseractEngine) Close() error {
	var firstErr error
	for i := 0; i < e.size; i++ {
		client := <-e.pool
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Engine = (*TesseractEngine)(nil)
