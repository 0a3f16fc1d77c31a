package notifications

import "context"

// Repo defines persistence operations for notifications. Mutations are
// scoped to the owning user; a mismatched user behaves like a missing row.
type Repo interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string, page, limit int, unreadOnly bool) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, notificationID, userID string) error
}
