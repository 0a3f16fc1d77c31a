package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create stores a document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID fetches a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByApplication lists documents for an application, newest first.
func (r *MemoryRepo) ListByApplication(ctx context.Context, applicationID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Document{}
	for _, doc := range r.data {
		if doc.ApplicationID == applicationID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// UpdateVerification records a manual verification decision.
func (r *MemoryRepo) UpdateVerification(ctx context.Context, documentID string, verified bool, notes string, verifiedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.Verified = verified
	doc.VerificationNotes = notes
	doc.VerifiedAt = &verifiedAt
	r.data[documentID] = doc
	return nil
}

// Delete hard-deletes a document record.
func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[documentID]; !ok {
		return ErrNotFound
	}
	delete(r.data, documentID)
	return nil
}

// Stats aggregates verification counts across all documents.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats Stats
	var totalBytes int64
	for _, doc := range r.data {
		stats.TotalDocuments++
		totalBytes += doc.SizeBytes
		if doc.Verified {
			stats.VerifiedDocuments++
		} else {
			stats.PendingDocuments++
		}
	}
	if stats.TotalDocuments > 0 {
		stats.AvgFileSize = float64(totalBytes) / float64(stats.TotalDocuments)
	}
	return stats, nil
}

var _ Repo = (*MemoryRepo)(nil)
