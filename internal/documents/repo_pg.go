package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, application_id, file_name, original_filename, mime_type, size_bytes, storage_key, url, document_type, verified, extracted_fields, verification_notes, verified_at, uploaded_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    application_id,
    file_name,
    original_filename,
    mime_type,
    size_bytes,
    storage_key,
    url,
    document_type,
    verified,
    extracted_fields,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	var fields any
	if doc.ExtractedFields != nil {
		raw, err := json.Marshal(doc.ExtractedFields)
		if err != nil {
			return err
		}
		fields = raw
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.ApplicationID,
		doc.FileName,
		doc.OriginalFilename,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.URL,
		string(doc.DocumentType),
		doc.Verified,
		fields,
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByApplication lists documents for an application, newest first.
func (r *PGRepo) ListByApplication(ctx context.Context, applicationID string) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE application_id = $1
ORDER BY uploaded_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateVerification records a manual verification decision.
func (r *PGRepo) UpdateVerification(ctx context.Context, documentID string, verified bool, notes string, verifiedAt time.Time) error {
	const query = `
UPDATE documents
SET verified = $1, verification_notes = $2, verified_at = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, verified, notes, verifiedAt, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes a document record.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates verification counts across all documents.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE verified),
    COUNT(*) FILTER (WHERE NOT verified),
    COALESCE(AVG(size_bytes), 0)
FROM documents`
	var stats Stats
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&stats.TotalDocuments,
		&stats.VerifiedDocuments,
		&stats.PendingDocuments,
		&stats.AvgFileSize,
	)
	return stats, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var docType string
	var fields []byte
	var notes sql.NullString
	var verifiedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.ApplicationID,
		&doc.FileName,
		&doc.OriginalFilename,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.URL,
		&docType,
		&doc.Verified,
		&fields,
		&notes,
		&verifiedAt,
		&doc.UploadedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.DocumentType = DocumentType(docType)
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &doc.ExtractedFields); err != nil {
			// Malformed payloads degrade to the raw value instead of failing
			// the whole read.
			doc.ExtractedFields = map[string]any{"raw": string(fields)}
		}
	}
	if notes.Valid {
		doc.VerificationNotes = notes.String
	}
	if verifiedAt.Valid {
		doc.VerifiedAt = &verifiedAt.Time
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
