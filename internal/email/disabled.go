package email

import (
	"context"

	"scholardocs/internal/shared/telemetry"
)

// Disabled is the sender used when no mail provider is configured. Sends
// are logged and skipped rather than treated as errors.
type Disabled struct{}

func (Disabled) SendDeadlineReminder(ctx context.Context, to, studentName, scholarshipName string, daysLeft int) error {
	skip(to, "deadline_reminder")
	return nil
}

func (Disabled) SendNewScholarshipAlert(ctx context.Context, to, studentName, scholarshipName string) error {
	skip(to, "new_scholarship")
	return nil
}

func (Disabled) SendApplicationStatus(ctx context.Context, to, studentName, scholarshipName, status string) error {
	skip(to, "application_status")
	return nil
}

func skip(to, kind string) {
	telemetry.Info("email.skipped", map[string]any{"to": to, "kind": kind, "reason": "email sender not configured"})
}

var _ Sender = Disabled{}
