package scheduler

import (
	"context"
	"time"

	"scholardocs/internal/email"
	"scholardocs/internal/notifications"
	"scholardocs/internal/scholarships"
	"scholardocs/internal/shared/telemetry"
	"scholardocs/internal/users"
)

// Scheduler runs the periodic reminder jobs: daily deadline reminders and
// weekly new-scholarship alerts. Each recipient is handled independently;
// one failure never aborts the rest of a batch.
type Scheduler struct {
	Scholarships scholarships.Repo
	Users        users.Repo
	Notify       *notifications.Service
	Email        email.Sender

	DeadlineInterval       time.Duration
	NewScholarshipInterval time.Duration

	now func() time.Time
}

// New constructs a Scheduler with the given scan intervals.
func New(repo scholarships.Repo, usersRepo users.Repo, notify *notifications.Service, sender email.Sender, deadlineInterval, newScholarshipInterval time.Duration) *Scheduler {
	return &Scheduler{
		Scholarships:           repo,
		Users:                  usersRepo,
		Notify:                 notify,
		Email:                  sender,
		DeadlineInterval:       deadlineInterval,
		NewScholarshipInterval: newScholarshipInterval,
		now:                    time.Now,
	}
}

// Start launches both jobs and blocks until ctx is cancelled. The jobs
// are independent; either can run while the other is mid-scan.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, s.DeadlineInterval, "deadline_reminders", s.RunDeadlineReminders)
	go s.loop(ctx, s.NewScholarshipInterval, "new_scholarship_alerts", s.RunNewScholarshipAlerts)
	<-ctx.Done()
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, name string, job func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := job(ctx); err != nil {
				telemetry.Error("scheduler.job_failed", map[string]any{"job": name, "error": err.Error()})
			}
		case <-ctx.Done():
			return
		}
	}
}

// RunDeadlineReminders notifies every user with a saved scholarship whose
// deadline is at most seven days out, and sends a best-effort email per
// recipient.
func (s *Scheduler) RunDeadlineReminders(ctx context.Context) error {
	candidates, err := s.Scholarships.DeadlineCandidates(ctx, s.now())
	if err != nil {
		return err
	}

	for _, c := range candidates {
		s.Notify.DeadlineReminder(ctx, c.UserID, c.ScholarshipID, c.ScholarshipName, c.DaysLeft)
		s.emailDeadlineReminder(ctx, c)
	}

	telemetry.Info("scheduler.deadline_reminders_sent", map[string]any{"count": len(candidates)})
	return nil
}

func (s *Scheduler) emailDeadlineReminder(ctx context.Context, c scholarships.DeadlineCandidate) {
	user, err := s.Users.GetByID(ctx, c.UserID)
	if err != nil {
		telemetry.Warn("scheduler.user_lookup_failed", map[string]any{"user_id": c.UserID, "error": err.Error()})
		return
	}
	if err := s.Email.SendDeadlineReminder(ctx, user.Email, user.FullName(), c.ScholarshipName, c.DaysLeft); err != nil {
		telemetry.Warn("scheduler.email_failed", map[string]any{
			"user_id":        c.UserID,
			"scholarship_id": c.ScholarshipID,
			"error":          err.Error(),
		})
	}
}

// RunNewScholarshipAlerts notifies users who have saved scholarships about
// active scholarships added in the last seven days, with a best-effort
// email per recipient.
func (s *Scheduler) RunNewScholarshipAlerts(ctx context.Context) error {
	recent, err := s.Scholarships.RecentScholarships(ctx, s.now())
	if err != nil {
		return err
	}

	sent := 0
	for _, scholarship := range recent {
		userIDs, err := s.Scholarships.InterestedUsers(ctx, scholarship.ID)
		if err != nil {
			telemetry.Warn("scheduler.interested_users_failed", map[string]any{
				"scholarship_id": scholarship.ID,
				"error":          err.Error(),
			})
			continue
		}
		for _, userID := range userIDs {
			s.Notify.NewScholarshipAlert(ctx, userID, scholarship.ID, scholarship.Name)
			s.emailNewScholarshipAlert(ctx, userID, scholarship)
			sent++
		}
	}

	telemetry.Info("scheduler.new_scholarship_alerts_sent", map[string]any{"count": sent})
	return nil
}

func (s *Scheduler) emailNewScholarshipAlert(ctx context.Context, userID string, scholarship scholarships.Scholarship) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		telemetry.Warn("scheduler.user_lookup_failed", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}
	if err := s.Email.SendNewScholarshipAlert(ctx, user.Email, user.FullName(), scholarship.Name); err != nil {
		telemetry.Warn("scheduler.email_failed", map[string]any{
			"user_id":        userID,
			"scholarship_id": scholarship.ID,
			"error":          err.Error(),
		})
	}
}
