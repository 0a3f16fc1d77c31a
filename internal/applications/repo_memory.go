package applications

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Application)}
}

// Put stores an application.
func (r *MemoryRepo) Put(app Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = app
}

// GetByID fetches an application by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, applicationID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// OwnedBy reports whether the application belongs to userID.
func (r *MemoryRepo) OwnedBy(ctx context.Context, applicationID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[applicationID]
	return ok && app.UserID == userID, nil
}

var _ Repo = (*MemoryRepo)(nil)
