package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a notification.
func (r *PGRepo) Create(ctx context.Context, n Notification) error {
	const query = `
INSERT INTO notifications (id, user_id, type, title, message, data, read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query, n.ID, n.UserID, string(n.Type), n.Title, n.Message, raw, n.Read, n.CreatedAt)
	return err
}

// ListByUser returns one page of a user's notifications, newest first,
// along with the total row count for the same filter.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, page, limit int, unreadOnly bool) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := `
SELECT id, user_id, type, title, message, data, read, created_at
FROM notifications
WHERE user_id = $1`
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
		countQuery += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		var typ string
		var raw []byte
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &raw, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		n.Type = Type(typ)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &n.Data); err != nil {
				n.Data = map[string]any{"raw": string(raw)}
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UnreadCount counts a user's unread notifications.
func (r *PGRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&count)
	return count, err
}

// MarkRead flips the read flag. Re-marking an already-read notification
// succeeds; a missing or foreign notification is ErrNotFound.
func (r *PGRepo) MarkRead(ctx context.Context, notificationID, userID string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on all of a user's unread notifications.
func (r *PGRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	return err
}

// Delete removes a notification owned by userID.
func (r *PGRepo) Delete(ctx context.Context, notificationID, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
