package notifications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Notification // userID -> notifications
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Notification)}
}

// Create stores a notification.
func (r *MemoryRepo) Create(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[n.UserID] = append(r.data[n.UserID], n)
	return nil
}

// ListByUser returns one page of a user's notifications, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, page, limit int, unreadOnly bool) ([]Notification, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Notification{}
	for _, n := range r.data[userID] {
		if unreadOnly && n.Read {
			continue
		}
		matched = append(matched, n)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []Notification{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Notification, end-offset)
	copy(out, matched[offset:end])
	return out, total, nil
}

// UnreadCount counts a user's unread notifications.
func (r *MemoryRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, n := range r.data[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flips the read flag, idempotently.
func (r *MemoryRepo) MarkRead(ctx context.Context, notificationID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// MarkAllRead flips the read flag on all of a user's notifications.
func (r *MemoryRepo) MarkAllRead(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i := range list {
		list[i].Read = true
	}
	return nil
}

// Delete removes a notification owned by userID.
func (r *MemoryRepo) Delete(ctx context.Context, notificationID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i := range list {
		if list[i].ID == notificationID {
			r.data[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
