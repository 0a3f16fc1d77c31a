package scholarships

import "time"

// Scholarship is one entry in the catalog.
type Scholarship struct {
	ID        string
	Name      string
	Deadline  time.Time
	IsActive  bool
	CreatedAt time.Time
}

// DeadlineCandidate is one (user, saved scholarship) pair whose deadline
// falls within the reminder window.
type DeadlineCandidate struct {
	UserID          string
	ScholarshipID   string
	ScholarshipName string
	DaysLeft        int
}
