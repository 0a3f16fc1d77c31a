package scholarships

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu           sync.RWMutex
	scholarships map[string]Scholarship
	saved        map[string]map[string]bool // scholarshipID -> userIDs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		scholarships: make(map[string]Scholarship),
		saved:        make(map[string]map[string]bool),
	}
}

// Put stores a scholarship.
func (r *MemoryRepo) Put(s Scholarship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scholarships[s.ID] = s
}

// Save records that a user saved a scholarship.
func (r *MemoryRepo) Save(userID, scholarshipID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.saved[scholarshipID]; !ok {
		r.saved[scholarshipID] = make(map[string]bool)
	}
	r.saved[scholarshipID][userID] = true
}

// DeadlineCandidates returns saved scholarships with deadlines strictly in
// the future and at most seven days out.
func (r *MemoryRepo) DeadlineCandidates(ctx context.Context, now time.Time) ([]DeadlineCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	today := truncateToDay(now)
	out := []DeadlineCandidate{}
	for scholarshipID, userIDs := range r.saved {
		s, ok := r.scholarships[scholarshipID]
		if !ok || !s.IsActive {
			continue
		}
		daysLeft := int(truncateToDay(s.Deadline).Sub(today) / (24 * time.Hour))
		if daysLeft <= 0 || daysLeft > 7 {
			continue
		}
		for userID := range userIDs {
			out = append(out, DeadlineCandidate{
				UserID:          userID,
				ScholarshipID:   s.ID,
				ScholarshipName: s.Name,
				DaysLeft:        daysLeft,
			})
		}
	}
	return out, nil
}

// RecentScholarships returns active scholarships created within the last
// seven days.
func (r *MemoryRepo) RecentScholarships(ctx context.Context, now time.Time) ([]Scholarship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := now.UTC().Add(-7 * 24 * time.Hour)
	out := []Scholarship{}
	for _, s := range r.scholarships {
		if s.IsActive && !s.CreatedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

// InterestedUsers returns IDs of users who saved the scholarship.
func (r *MemoryRepo) InterestedUsers(ctx context.Context, scholarshipID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []string{}
	for userID := range r.saved[scholarshipID] {
		out = append(out, userID)
	}
	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ Repo = (*MemoryRepo)(nil)
