package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByApplication(ctx context.Context, applicationID string) ([]Document, error)
	UpdateVerification(ctx context.Context, documentID string, verified bool, notes string, verifiedAt time.Time) error
	Delete(ctx context.Context, documentID string) error
	Stats(ctx context.Context) (Stats, error)
}
