package notifications

import "time"

// NotificationResponse is the outward-facing representation of a
// notification. The same shape goes over the real-time channel.
type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toResponse(n Notification) NotificationResponse {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		IsRead:    n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ListResponse is the paginated listing envelope.
type ListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Pagination    Pagination             `json:"pagination"`
}
