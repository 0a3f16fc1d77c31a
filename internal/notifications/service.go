package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scholardocs/internal/shared/telemetry"
)

// Pusher delivers a payload to a user's live connections, if any. Losing
// a push is fine; the persisted record is the durable fallback.
type Pusher interface {
	Publish(userID, event string, payload any)
}

// Service creates and manages notifications.
type Service struct {
	Repo Repo
	Push Pusher
}

// Notify persists a notification and pushes it to the user's live
// connections. Best-effort: failures are logged, never returned, because
// notification loss must not fail the operation that triggered it.
func (s *Service) Notify(ctx context.Context, userID string, typ Type, title, message string, data map[string]any) {
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		telemetry.Error("notification.create_failed", map[string]any{
			"user_id": userID,
			"type":    string(typ),
			"error":   err.Error(),
		})
		return
	}

	if s.Push != nil {
		s.Push.Publish(userID, "notification", toResponse(n))
	}
}

// DocumentUploaded tells the user their upload landed and whether the
// automatic verification passed.
func (s *Service) DocumentUploaded(ctx context.Context, userID, originalFilename, documentID, applicationID string, verified bool) {
	status := "is pending verification"
	if verified {
		status = "has been verified"
	}
	s.Notify(ctx, userID, TypeDocumentUpload,
		"Document Uploaded",
		fmt.Sprintf("Your document %q has been uploaded and %s.", originalFilename, status),
		map[string]any{"documentId": documentID, "applicationId": applicationID, "verified": verified},
	)
}

// DocumentVerified tells the user about a manual verification decision.
func (s *Service) DocumentVerified(ctx context.Context, userID, documentID, applicationID string, verified bool, notes string) {
	outcome := "rejected"
	if verified {
		outcome = "approved"
	}
	s.Notify(ctx, userID, TypeDocumentVerification,
		"Document Verified",
		fmt.Sprintf("Your document has been %s by our verification team.", outcome),
		map[string]any{"documentId": documentID, "applicationId": applicationID, "verified": verified, "notes": notes},
	)
}

// ApplicationStatus tells the user their application moved to a new status.
func (s *Service) ApplicationStatus(ctx context.Context, userID, applicationID, status string) {
	s.Notify(ctx, userID, TypeApplicationStatus,
		"Application Status Update",
		fmt.Sprintf("Your scholarship application status has been updated to: %s", status),
		map[string]any{"applicationId": applicationID, "status": status},
	)
}

// DeadlineReminder warns the user about an approaching scholarship deadline.
func (s *Service) DeadlineReminder(ctx context.Context, userID, scholarshipID, scholarshipName string, daysLeft int) {
	s.Notify(ctx, userID, TypeDeadlineReminder,
		"Scholarship Deadline Reminder",
		fmt.Sprintf("The deadline for %q is approaching in %d days. Don't miss out!", scholarshipName, daysLeft),
		map[string]any{"scholarshipId": scholarshipID, "daysLeft": daysLeft},
	)
}

// NewScholarshipAlert tells the user about a freshly added scholarship.
func (s *Service) NewScholarshipAlert(ctx context.Context, userID, scholarshipID, scholarshipName string) {
	s.Notify(ctx, userID, TypeNewScholarship,
		"New Scholarship Available",
		fmt.Sprintf("A new scholarship %q has been added that may interest you.", scholarshipName),
		map[string]any{"scholarshipId": scholarshipID},
	)
}

// System sends a free-form administrative notification.
func (s *Service) System(ctx context.Context, userID, title, message string, data map[string]any) {
	s.Notify(ctx, userID, TypeSystem, title, message, data)
}

// List returns one page of the caller's notifications.
func (s *Service) List(ctx context.Context, userID string, page, limit int, unreadOnly bool) ([]Notification, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	list, total, err := s.Repo.ListByUser(ctx, userID, page, limit, unreadOnly)
	if err != nil {
		return nil, Pagination{}, err
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return list, Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// UnreadCount counts the caller's unread notifications.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.UnreadCount(ctx, userID)
}

// MarkRead marks one of the caller's notifications read. Idempotent.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.Repo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the caller's notifications read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllRead(ctx, userID)
}

// Delete removes one of the caller's notifications.
func (s *Service) Delete(ctx context.Context, notificationID, userID string) error {
	return s.Repo.Delete(ctx, notificationID, userID)
}
