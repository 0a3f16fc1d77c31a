package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"scholardocs/internal/applications"
	"scholardocs/internal/shared/metrics"
)

type stubStore struct {
	uploads int
	fail    bool
}

func (s *stubStore) Upload(ctx context.Context, localPath, desiredName, mimeType string) (string, string, error) {
	s.uploads++
	if s.fail {
		return "", "", errors.New("bucket unreachable")
	}
	return "documents/1700000000000-" + desiredName, "https://signed.example/" + desiredName, nil
}

func (s *stubStore) SignedURL(ctx context.Context, key string) (string, error) {
	if s.fail {
		return "", errors.New("bucket unreachable")
	}
	return "https://signed.example/fresh/" + key, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(ctx context.Context, path, mimeType, fileName string) (string, error) {
	return s.text, s.err
}

type recordingNotifier struct {
	uploaded []string
	verified []string
}

func (n *recordingNotifier) DocumentUploaded(ctx context.Context, userID, originalFilename, documentID, applicationID string, verified bool) {
	n.uploaded = append(n.uploaded, userID)
}

func (n *recordingNotifier) DocumentVerified(ctx context.Context, userID, documentID, applicationID string, verified bool, notes string) {
	n.verified = append(n.verified, userID)
}

func newTestService(t *testing.T, store *stubStore, ext *stubExtractor) (*Service, *MemoryRepo, *recordingNotifier) {
	t.Helper()
	apps := applications.NewMemoryRepo()
	apps.Put(applications.Application{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-1", Status: "draft"})
	repo := NewMemoryRepo()
	notifier := &recordingNotifier{}
	svc := &Service{
		Store:     store,
		Extractor: ext,
		Repo:      repo,
		Apps:      apps,
		Notifier:  notifier,
	}
	return svc, repo, notifier
}

func stageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memo.pdf")
	if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
		t.Fatalf("stage file: %v", err)
	}
	return path
}

func TestIngestCreatesVerifiedDocument(t *testing.T) {
	store := &stubStore{}
	svc, repo, notifier := newTestService(t, store, &stubExtractor{text: "GPA: 3.8 CS101"})
	path := stageFile(t)

	doc, err := svc.Ingest(context.Background(), "user-1", IngestInput{
		ApplicationID:    "app-1",
		DocumentType:     TypeTranscript,
		LocalPath:        path,
		OriginalFilename: "memo.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        7,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !doc.Verified {
		t.Fatal("expected document verified")
	}
	if doc.StorageKey == "" || doc.URL == "" {
		t.Fatalf("expected storage key and URL, got %q %q", doc.StorageKey, doc.URL)
	}
	if doc.ExtractedFields["coursesCount"] != 1 {
		t.Fatalf("expected coursesCount 1, got %v", doc.ExtractedFields["coursesCount"])
	}

	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Fatalf("document not persisted: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("staged file should be removed after persistence")
	}
	if len(notifier.uploaded) != 1 || notifier.uploaded[0] != "user-1" {
		t.Fatalf("expected upload notification for user-1, got %v", notifier.uploaded)
	}
}

func TestIngestAccessDeniedCreatesNothing(t *testing.T) {
	store := &stubStore{}
	svc, repo, notifier := newTestService(t, store, &stubExtractor{text: "irrelevant"})
	path := stageFile(t)

	_, err := svc.Ingest(context.Background(), "intruder", IngestInput{
		ApplicationID:    "app-1",
		DocumentType:     TypeTranscript,
		LocalPath:        path,
		OriginalFilename: "memo.pdf",
		MimeType:         "application/pdf",
	})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if store.uploads != 0 {
		t.Fatal("nothing should reach the object store")
	}
	stats, _ := repo.Stats(context.Background())
	if stats.TotalDocuments != 0 {
		t.Fatal("no document record should exist")
	}
	if len(notifier.uploaded) != 0 {
		t.Fatal("no notification should be sent")
	}
}

func TestIngestUploadFailureKeepsStagedFile(t *testing.T) {
	store := &stubStore{fail: true}
	svc, repo, _ := newTestService(t, store, &stubExtractor{text: "irrelevant"})
	path := stageFile(t)

	_, err := svc.Ingest(context.Background(), "user-1", IngestInput{
		ApplicationID:    "app-1",
		DocumentType:     TypeTranscript,
		LocalPath:        path,
		OriginalFilename: "memo.pdf",
		MimeType:         "application/pdf",
	})
	if err == nil {
		t.Fatal("expected upload failure to propagate")
	}
	stats, _ := repo.Stats(context.Background())
	if stats.TotalDocuments != 0 {
		t.Fatal("failed upload must not create a document record")
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("staged file must survive a failed upload for retry: %v", statErr)
	}
}

func TestIngestExtractionFailureDowngradesToUnverified(t *testing.T) {
	store := &stubStore{}
	svc, repo, notifier := newTestService(t, store, &stubExtractor{err: errors.New("ocr crashed")})
	path := stageFile(t)

	doc, err := svc.Ingest(context.Background(), "user-1", IngestInput{
		ApplicationID:    "app-1",
		DocumentType:     TypeTranscript,
		LocalPath:        path,
		OriginalFilename: "memo.pdf",
		MimeType:         "application/pdf",
	})
	if err != nil {
		t.Fatalf("extraction failure must not abort the upload: %v", err)
	}
	if doc.Verified {
		t.Fatal("expected unverified document after extraction failure")
	}
	if doc.ExtractedFields != nil {
		t.Fatalf("expected no extracted fields, got %v", doc.ExtractedFields)
	}
	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Fatalf("document should still be persisted: %v", err)
	}
	if len(notifier.uploaded) != 1 {
		t.Fatal("upload notification should still fire")
	}
}

func TestGetRefreshesSignedURL(t *testing.T) {
	store := &stubStore{}
	svc, repo, _ := newTestService(t, store, &stubExtractor{})

	seed := Document{ID: "doc-1", ApplicationID: "app-1", StorageKey: "documents/1-memo.pdf", URL: "https://stale.example"}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	doc, err := svc.Get(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.URL != "https://signed.example/fresh/documents/1-memo.pdf" {
		t.Fatalf("expected fresh signed URL, got %q", doc.URL)
	}
}

func TestGetDeniesForeignDocument(t *testing.T) {
	store := &stubStore{}
	svc, repo, _ := newTestService(t, store, &stubExtractor{})
	_ = repo.Create(context.Background(), Document{ID: "doc-1", ApplicationID: "app-1"})

	if _, err := svc.Get(context.Background(), "intruder", "doc-1"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestManualVerifyNotifiesOwner(t *testing.T) {
	store := &stubStore{}
	svc, repo, notifier := newTestService(t, store, &stubExtractor{})
	_ = repo.Create(context.Background(), Document{ID: "doc-1", ApplicationID: "app-1"})

	doc, err := svc.ManualVerify(context.Background(), "doc-1", true, "looks legitimate")
	if err != nil {
		t.Fatalf("ManualVerify: %v", err)
	}
	if !doc.Verified || doc.VerifiedAt == nil || doc.VerificationNotes != "looks legitimate" {
		t.Fatalf("verification state not recorded: %+v", doc)
	}
	if len(notifier.verified) != 1 || notifier.verified[0] != "user-1" {
		t.Fatalf("expected verification notification for user-1, got %v", notifier.verified)
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	store := &stubStore{}
	svc, repo, _ := newTestService(t, store, &stubExtractor{})
	_ = repo.Create(context.Background(), Document{ID: "doc-1", ApplicationID: "app-1"})

	if err := svc.Delete(context.Background(), "intruder", "doc-1"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", "doc-1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

type failingApps struct{}

func (failingApps) GetByID(ctx context.Context, applicationID string) (applications.Application, error) {
	return applications.Application{}, errors.New("db unreachable")
}

func (failingApps) OwnedBy(ctx context.Context, applicationID, userID string) (bool, error) {
	return false, errors.New("db unreachable")
}

func ingestFailedTotal(t *testing.T) uint64 {
	t.Helper()
	for _, line := range strings.Split(metrics.Render(), "\n") {
		if strings.HasPrefix(line, "ingest_failed_total ") {
			v, err := strconv.ParseUint(strings.TrimPrefix(line, "ingest_failed_total "), 10, 64)
			if err != nil {
				t.Fatalf("parse counter: %v", err)
			}
			return v
		}
	}
	t.Fatal("ingest_failed_total not rendered")
	return 0
}

func TestIngestOwnershipCheckErrorCountsAsFailure(t *testing.T) {
	store := &stubStore{}
	svc, _, _ := newTestService(t, store, &stubExtractor{})
	svc.Apps = failingApps{}
	before := ingestFailedTotal(t)

	_, err := svc.Ingest(context.Background(), "user-1", IngestInput{
		ApplicationID:    "app-1",
		DocumentType:     TypeTranscript,
		LocalPath:        stageFile(t),
		OriginalFilename: "memo.pdf",
		MimeType:         "application/pdf",
	})
	if err == nil {
		t.Fatal("expected error from ownership check")
	}
	if store.uploads != 0 {
		t.Fatal("nothing should reach the object store")
	}
	if got := ingestFailedTotal(t); got != before+1 {
		t.Fatalf("expected failed counter %d, got %d", before+1, got)
	}
}
