package applications

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetByID fetches an application by ID.
func (r *PGRepo) GetByID(ctx context.Context, applicationID string) (Application, error) {
	const query = `
SELECT id, user_id, scholarship_id, status, created_at
FROM applications
WHERE id = $1`
	var app Application
	err := r.DB.QueryRowContext(ctx, query, applicationID).Scan(
		&app.ID,
		&app.UserID,
		&app.ScholarshipID,
		&app.Status,
		&app.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// OwnedBy reports whether the application belongs to userID.
func (r *PGRepo) OwnedBy(ctx context.Context, applicationID, userID string) (bool, error) {
	const query = `SELECT 1 FROM applications WHERE id = $1 AND user_id = $2`
	var one int
	err := r.DB.QueryRowContext(ctx, query, applicationID, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ Repo = (*PGRepo)(nil)
