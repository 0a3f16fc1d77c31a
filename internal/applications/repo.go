package applications

import "context"

// Repo defines persistence operations for applications.
type Repo interface {
	GetByID(ctx context.Context, applicationID string) (Application, error)
	// OwnedBy reports whether the application exists and belongs to userID.
	OwnedBy(ctx context.Context, applicationID, userID string) (bool, error)
}
