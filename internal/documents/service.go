package documents

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"scholardocs/internal/applications"
	"scholardocs/internal/shared/metrics"
	"scholardocs/internal/shared/storage/object"
	"scholardocs/internal/shared/telemetry"
)

// TextExtractor produces plain text from a staged file.
type TextExtractor interface {
	ExtractText(ctx context.Context, path, mimeType, fileName string) (string, error)
}

// Notifier is the slice of notification dispatch the pipeline needs.
// Calls are best-effort: implementations log failures instead of returning
// them, so a notification outage never fails an upload.
type Notifier interface {
	DocumentUploaded(ctx context.Context, userID, originalFilename, documentID, applicationID string, verified bool)
	DocumentVerified(ctx context.Context, userID, documentID, applicationID string, verified bool, notes string)
}

// Service orchestrates the document ingestion pipeline.
type Service struct {
	Store     object.Store
	Extractor TextExtractor
	Repo      Repo
	Apps      applications.Repo
	Notifier  Notifier
}

// IngestInput describes one uploaded file already staged on local disk.
type IngestInput struct {
	ApplicationID    string
	DocumentType     DocumentType
	LocalPath        string
	OriginalFilename string
	MimeType         string
	SizeBytes        int64
}

// Ingest runs the upload pipeline: authorization, storage upload,
// extraction + classification, persistence, local cleanup, notification.
// Upload failures abort before any record is created and leave the staged
// file in place for a retry. Extraction and classification failures
// downgrade to an unverified document. Notification failures are ignored.
func (s *Service) Ingest(ctx context.Context, userID string, in IngestInput) (Document, error) {
	if in.ApplicationID == "" || in.LocalPath == "" {
		return Document{}, ErrInvalidInput
	}
	metrics.IncIngestStarted()
	startedAt := time.Now()

	owned, err := s.Apps.OwnedBy(ctx, in.ApplicationID, userID)
	if err != nil {
		metrics.IncIngestFailed()
		return Document{}, fmt.Errorf("check application ownership: %w", err)
	}
	if !owned {
		metrics.IncIngestFailed()
		return Document{}, ErrAccessDenied
	}

	storageKey, url, err := s.Store.Upload(ctx, in.LocalPath, in.OriginalFilename, in.MimeType)
	if err != nil {
		metrics.IncIngestFailed()
		return Document{}, fmt.Errorf("upload to object store: %w", err)
	}

	cls := s.classifyStaged(ctx, in)

	doc := Document{
		ID:               uuid.NewString(),
		ApplicationID:    in.ApplicationID,
		FileName:         storageKey,
		OriginalFilename: in.OriginalFilename,
		MimeType:         in.MimeType,
		SizeBytes:        in.SizeBytes,
		StorageKey:       storageKey,
		URL:              url,
		DocumentType:     in.DocumentType,
		Verified:         cls.Verified,
		ExtractedFields:  cls.Fields,
		UploadedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		metrics.IncIngestFailed()
		return Document{}, fmt.Errorf("persist document: %w", err)
	}

	if err := os.Remove(in.LocalPath); err != nil {
		telemetry.Warn("document.cleanup_failed", map[string]any{
			"document_id": doc.ID,
			"path":        in.LocalPath,
			"error":       err.Error(),
		})
	}

	s.Notifier.DocumentUploaded(ctx, userID, in.OriginalFilename, doc.ID, doc.ApplicationID, doc.Verified)

	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(float64(time.Since(startedAt) / time.Millisecond))
	return doc, nil
}

// classifyStaged extracts text and runs the verification heuristic. Any
// failure downgrades to an unverified result instead of propagating; the
// uploaded file is worth more than a failed verification attempt.
func (s *Service) classifyStaged(ctx context.Context, in IngestInput) Classification {
	text, err := s.Extractor.ExtractText(ctx, in.LocalPath, in.MimeType, in.OriginalFilename)
	if err != nil {
		metrics.IncIngestDowngraded()
		telemetry.Warn("document.extract_failed", map[string]any{
			"application_id": in.ApplicationID,
			"document_type":  string(in.DocumentType),
			"error":          err.Error(),
		})
		return Classification{Verified: false}
	}
	return Classify(text, in.DocumentType)
}

// Get returns a document with a freshly signed access URL. Ownership is
// resolved through the owning application.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	owned, err := s.Apps.OwnedBy(ctx, doc.ApplicationID, userID)
	if err != nil {
		return Document{}, err
	}
	if !owned {
		return Document{}, ErrAccessDenied
	}
	s.refreshURL(ctx, &doc)
	return doc, nil
}

// ListByApplication returns an application's documents, newest first.
func (s *Service) ListByApplication(ctx context.Context, userID, applicationID string) ([]Document, error) {
	owned, err := s.Apps.OwnedBy(ctx, applicationID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrAccessDenied
	}
	docs, err := s.Repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		s.refreshURL(ctx, &docs[i])
	}
	return docs, nil
}

// Delete hard-deletes a document record. The remote object is left in
// place; reclaiming storage is out of scope at this scale.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	owned, err := s.Apps.OwnedBy(ctx, doc.ApplicationID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrAccessDenied
	}
	return s.Repo.Delete(ctx, documentID)
}

// ManualVerify records an admin verification decision and notifies the
// owning user. Role enforcement happens at the HTTP layer.
func (s *Service) ManualVerify(ctx context.Context, documentID string, verified bool, notes string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	if err := s.Repo.UpdateVerification(ctx, documentID, verified, notes, now); err != nil {
		return Document{}, err
	}
	doc.Verified = verified
	doc.VerificationNotes = notes
	doc.VerifiedAt = &now

	app, err := s.Apps.GetByID(ctx, doc.ApplicationID)
	if err != nil {
		telemetry.Warn("document.verify_owner_lookup_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return doc, nil
	}
	s.Notifier.DocumentVerified(ctx, app.UserID, doc.ID, doc.ApplicationID, verified, notes)

	return doc, nil
}

// Stats aggregates verification progress across all documents.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.Repo.Stats(ctx)
}

// refreshURL mints a fresh signed URL from the stored key. The persisted
// URL expires an hour after upload, so reads re-sign; on failure the stale
// URL is returned rather than failing the read.
func (s *Service) refreshURL(ctx context.Context, doc *Document) {
	if doc.StorageKey == "" {
		return
	}
	url, err := s.Store.SignedURL(ctx, doc.StorageKey)
	if err != nil {
		telemetry.Warn("document.sign_url_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return
	}
	doc.URL = url
}
