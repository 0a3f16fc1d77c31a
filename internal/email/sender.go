package email

import "context"

// Sender delivers outbound mail. Callers treat sends as best-effort; a
// failed send is logged by the caller and never blocks the batch.
type Sender interface {
	SendDeadlineReminder(ctx context.Context, to, studentName, scholarshipName string, daysLeft int) error
	SendNewScholarshipAlert(ctx context.Context, to, studentName, scholarshipName string) error
	SendApplicationStatus(ctx context.Context, to, studentName, scholarshipName, status string) error
}
