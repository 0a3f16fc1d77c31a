package notifications

import "time"

// Type discriminates what produced a notification and what its data
// payload carries.
type Type string

const (
	TypeApplicationStatus    Type = "application_status"
	TypeDeadlineReminder     Type = "deadline_reminder"
	TypeNewScholarship       Type = "new_scholarship"
	TypeSystem               Type = "system"
	TypeDocumentUpload       Type = "document_upload"
	TypeDocumentVerification Type = "document_verification"
)

// Notification is one message delivered to a user. Immutable after
// creation except for the read flag.
type Notification struct {
	ID        string
	UserID    string
	Type      Type
	Title     string
	Message   string
	Data      map[string]any
	Read      bool
	CreatedAt time.Time
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}
