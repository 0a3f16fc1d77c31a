package applications

import "time"

// Application represents a student's submitted request for a scholarship.
// Only ownership resolution is in scope here; the application workflow
// itself lives elsewhere.
type Application struct {
	ID            string
	UserID        string
	ScholarshipID string
	Status        string
	CreatedAt     time.Time
}
