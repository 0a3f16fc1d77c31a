package documents

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"scholardocs/internal/shared/server/middleware"
	"scholardocs/internal/shared/server/respond"
	"scholardocs/internal/shared/util"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	TmpDir string
}

// NewHandler constructs a Handler. Uploads are staged under tmpDir before
// the pipeline runs.
func NewHandler(svc *Service, tmpDir string) *Handler {
	return &Handler{Svc: svc, TmpDir: tmpDir}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents/application/:applicationId", h.listByApplication)
	rg.GET("/documents/admin/stats", middleware.RequireAdmin(), h.stats)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.remove)
	rg.PUT("/documents/:id/verify", middleware.RequireAdmin(), h.verify)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	// The body cap allows for multipart framing and the form fields; the
	// file-size limit itself is enforced against fileHeader.Size below.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file uploaded", nil)
		return
	}

	applicationID := strings.TrimSpace(c.PostForm("applicationId"))
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Application ID is required", nil)
		return
	}

	docType, ok := ParseDocumentType(strings.TrimSpace(c.PostForm("documentType")))
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unknown document type", nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !MimeTypeAllowed(mimeType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid file type. Only PDF, images, and Word documents are allowed.", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File exceeds the 10MB limit", nil)
		return
	}

	safeName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid file name", nil)
		return
	}

	localPath := filepath.Join(h.TmpDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), safeName))
	if err := c.SaveUploadedFile(fileHeader, localPath); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to stage uploaded file", nil)
		return
	}

	doc, err := h.Svc.Ingest(c.Request.Context(), userID, IngestInput{
		ApplicationID:    applicationID,
		DocumentType:     docType,
		LocalPath:        localPath,
		OriginalFilename: fileHeader.Filename,
		MimeType:         mimeType,
		SizeBytes:        fileHeader.Size,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAccessDenied):
			// Nothing was uploaded; no point keeping the staged file.
			_ = os.Remove(localPath)
			respond.Error(c, http.StatusForbidden, "access_denied", "Access denied", nil)
		case errors.Is(err, ErrInvalidInput):
			_ = os.Remove(localPath)
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			// Staged file is kept so the client can retry the upload.
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to upload document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) listByApplication(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Param("applicationId")

	docs, err := h.Svc.ListByApplication(c.Request.Context(), userID, applicationID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccessDenied):
			respond.Error(c, http.StatusForbidden, "access_denied", "Access denied", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch documents", nil)
		}
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		case errors.Is(err, ErrAccessDenied):
			respond.Error(c, http.StatusForbidden, "access_denied", "Access denied", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		case errors.Is(err, ErrAccessDenied):
			respond.Error(c, http.StatusForbidden, "access_denied", "Access denied", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to delete document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

type verifyRequest struct {
	Verified *bool  `json:"verified"`
	Notes    string `json:"notes"`
}

func (h *Handler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Verified == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "verified is required", nil)
		return
	}

	doc, err := h.Svc.ManualVerify(c.Request.Context(), c.Param("id"), *req.Verified, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to verify document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch document statistics", nil)
		return
	}
	respond.JSON(c, http.StatusOK, StatsResponse{
		TotalDocuments:    stats.TotalDocuments,
		VerifiedDocuments: stats.VerifiedDocuments,
		PendingDocuments:  stats.PendingDocuments,
		AvgFileSize:       stats.AvgFileSize,
	})
}
