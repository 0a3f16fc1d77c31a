package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"scholardocs/internal/applications"
	"scholardocs/internal/documents"
	"scholardocs/internal/shared/auth"
	"scholardocs/internal/shared/server/middleware"
)

const testSecret = "test-secret"

type fakeStore struct{}

func (fakeStore) Upload(ctx context.Context, localPath, desiredName, mimeType string) (string, string, error) {
	return "documents/1-" + desiredName, "https://signed.example/" + desiredName, nil
}

func (fakeStore) SignedURL(ctx context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}

type fakeExtractor struct{ text string }

func (f fakeExtractor) ExtractText(ctx context.Context, path, mimeType, fileName string) (string, error) {
	return f.text, nil
}

type nopNotifier struct{}

func (nopNotifier) DocumentUploaded(ctx context.Context, userID, originalFilename, documentID, applicationID string, verified bool) {
}

func (nopNotifier) DocumentVerified(ctx context.Context, userID, documentID, applicationID string, verified bool, notes string) {
}

func newTestRouter(t *testing.T, extractedText string) (*gin.Engine, *documents.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	apps := applications.NewMemoryRepo()
	apps.Put(applications.Application{ID: "app-1", UserID: "student-1", Status: "draft"})
	repo := documents.NewMemoryRepo()

	svc := &documents.Service{
		Store:     fakeStore{},
		Extractor: fakeExtractor{text: extractedText},
		Repo:      repo,
		Apps:      apps,
		Notifier:  nopNotifier{},
	}
	handler := documents.NewHandler(svc, t.TempDir())

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.Auth(testSecret))
	handler.RegisterRoutes(api)
	return router, repo
}

func signTestToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.SignJWT(testSecret, userID, role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func multipartUpload(t *testing.T, applicationID, documentType, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if applicationID != "" {
		_ = writer.WriteField("applicationId", applicationID)
	}
	if documentType != "" {
		_ = writer.WriteField("documentType", documentType)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	router, _ := newTestRouter(t, "GPA: 3.75 CS101 MATH204")
	body, contentType := multipartUpload(t, "app-1", "transcript", "grades.pdf", "application/pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID            string         `json:"id"`
		ApplicationID string         `json:"applicationId"`
		Verified      bool           `json:"verified"`
		ExtractedData map[string]any `json:"extractedData"`
		URL           string         `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.ApplicationID != "app-1" {
		t.Fatalf("unexpected response: %+v", created)
	}
	if !created.Verified {
		t.Fatal("expected verified document")
	}
	if created.ExtractedData["coursesCount"] != float64(2) {
		t.Fatalf("expected coursesCount 2, got %v", created.ExtractedData["coursesCount"])
	}
	if created.URL == "" {
		t.Fatal("expected signed URL in response")
	}
}

func TestUploadRejectsDisallowedMime(t *testing.T) {
	router, repo := newTestRouter(t, "")
	body, contentType := multipartUpload(t, "app-1", "other", "payload.exe", "application/octet-stream", []byte{0x4d, 0x5a})

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	stats, _ := repo.Stats(context.Background())
	if stats.TotalDocuments != 0 {
		t.Fatal("rejected upload must not create a record")
	}
}

func TestUploadAcceptsFileAtSizeLimit(t *testing.T) {
	router, repo := newTestRouter(t, "")
	content := bytes.Repeat([]byte("a"), documents.MaxUploadBytes)
	body, contentType := multipartUpload(t, "app-1", "other", "scan.png", "image/png", content)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("a file of exactly the size limit is valid, got %d: %s", resp.Code, resp.Body.String())
	}
	stats, _ := repo.Stats(context.Background())
	if stats.TotalDocuments != 1 {
		t.Fatalf("expected 1 stored document, got %d", stats.TotalDocuments)
	}
}

func TestUploadRejectsFileOverSizeLimit(t *testing.T) {
	router, repo := newTestRouter(t, "")
	content := bytes.Repeat([]byte("a"), documents.MaxUploadBytes+1)
	body, contentType := multipartUpload(t, "app-1", "other", "scan.png", "image/png", content)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	stats, _ := repo.Stats(context.Background())
	if stats.TotalDocuments != 0 {
		t.Fatal("oversized upload must not create a record")
	}
}

func TestUploadRequiresApplicationOwnership(t *testing.T) {
	router, _ := newTestRouter(t, "")
	body, contentType := multipartUpload(t, "app-1", "other", "memo.pdf", "application/pdf", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "someone-else", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestUploadMissingApplicationID(t *testing.T) {
	router, _ := newTestRouter(t, "")
	body, contentType := multipartUpload(t, "", "other", "memo.pdf", "application/pdf", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, "")
	body, contentType := multipartUpload(t, "app-1", "other", "memo.pdf", "application/pdf", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestListDocumentsForApplication(t *testing.T) {
	router, repo := newTestRouter(t, "")
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-1", ApplicationID: "app-1", StorageKey: "k1"})
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-2", ApplicationID: "app-1", StorageKey: "k2"})

	req := httptest.NewRequest(http.MethodGet, "/api/documents/application/app-1", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var docs []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestVerifyDocumentRequiresAdmin(t *testing.T) {
	router, repo := newTestRouter(t, "")
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-1", ApplicationID: "app-1"})

	payload := bytes.NewBufferString(`{"verified": true, "notes": "checked"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1/verify", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.Code)
	}
}

func TestVerifyDocumentAsAdmin(t *testing.T) {
	router, repo := newTestRouter(t, "")
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-1", ApplicationID: "app-1"})

	payload := bytes.NewBufferString(`{"verified": true, "notes": "checked"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1/verify", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "admin-1", "admin"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !doc.Verified || doc.VerificationNotes != "checked" {
		t.Fatalf("verification not recorded: %+v", doc)
	}
}

func TestAdminStats(t *testing.T) {
	router, repo := newTestRouter(t, "")
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-1", ApplicationID: "app-1", Verified: true, SizeBytes: 100})
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-2", ApplicationID: "app-1", SizeBytes: 300})

	req := httptest.NewRequest(http.MethodGet, "/api/documents/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "admin-1", "admin"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var stats struct {
		TotalDocuments    int64   `json:"totalDocuments"`
		VerifiedDocuments int64   `json:"verifiedDocuments"`
		PendingDocuments  int64   `json:"pendingDocuments"`
		AvgFileSize       float64 `json:"avgFileSize"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalDocuments != 2 || stats.VerifiedDocuments != 1 || stats.PendingDocuments != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AvgFileSize != 200 {
		t.Fatalf("expected avgFileSize 200, got %v", stats.AvgFileSize)
	}
}

func TestDeleteDocument(t *testing.T) {
	router, repo := newTestRouter(t, "")
	_ = repo.Create(context.Background(), documents.Document{ID: "doc-1", ApplicationID: "app-1"})

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, err := repo.GetByID(context.Background(), "doc-1"); err == nil {
		t.Fatal("document should be gone")
	}
}
