package scholarships

import (
	"context"
	"time"
)

// Repo exposes the catalog queries the reminder scheduler scans with.
type Repo interface {
	// DeadlineCandidates returns every (user, saved scholarship) pair where
	// the scholarship is active and its deadline falls after now and at
	// most seven days out. The boundary is inclusive at seven days.
	DeadlineCandidates(ctx context.Context, now time.Time) ([]DeadlineCandidate, error)
	// RecentScholarships returns active scholarships created within the
	// last seven days.
	RecentScholarships(ctx context.Context, now time.Time) ([]Scholarship, error)
	// InterestedUsers returns the IDs of users who have saved the given
	// scholarship. Saving is the interest proxy for new-scholarship alerts.
	InterestedUsers(ctx context.Context, scholarshipID string) ([]string, error)
}
