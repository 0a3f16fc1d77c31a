package scholarships

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// DeadlineCandidates returns saved scholarships with deadlines within the
// next seven days.
func (r *PGRepo) DeadlineCandidates(ctx context.Context, now time.Time) ([]DeadlineCandidate, error) {
	const query = `
SELECT DISTINCT
    uss.user_id,
    s.id,
    s.name,
    (s.deadline - $1::date) AS days_left
FROM user_saved_scholarships uss
JOIN scholarships s ON uss.scholarship_id = s.id
WHERE s.is_active
  AND s.deadline > $1::date
  AND s.deadline - $1::date <= 7`

	rows, err := r.DB.QueryContext(ctx, query, now.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DeadlineCandidate{}
	for rows.Next() {
		var c DeadlineCandidate
		if err := rows.Scan(&c.UserID, &c.ScholarshipID, &c.ScholarshipName, &c.DaysLeft); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentScholarships returns active scholarships created within the last
// seven days.
func (r *PGRepo) RecentScholarships(ctx context.Context, now time.Time) ([]Scholarship, error) {
	const query = `
SELECT id, name, deadline, is_active, created_at
FROM scholarships
WHERE is_active AND created_at >= $1`

	rows, err := r.DB.QueryContext(ctx, query, now.UTC().Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Scholarship{}
	for rows.Next() {
		var s Scholarship
		if err := rows.Scan(&s.ID, &s.Name, &s.Deadline, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InterestedUsers returns IDs of users who saved the scholarship.
func (r *PGRepo) InterestedUsers(ctx context.Context, scholarshipID string) ([]string, error) {
	const query = `
SELECT DISTINCT user_id
FROM user_saved_scholarships
WHERE scholarship_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, scholarshipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		out = append(out, userID)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
