package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID                string         `json:"id"`
	ApplicationID     string         `json:"applicationId"`
	FileName          string         `json:"filename"`
	OriginalFilename  string         `json:"originalname"`
	MimeType          string         `json:"mimetype"`
	SizeBytes         int64          `json:"size"`
	URL               string         `json:"url"`
	DocumentType      DocumentType   `json:"documentType"`
	Verified          bool           `json:"verified"`
	ExtractedFields   map[string]any `json:"extractedData,omitempty"`
	VerificationNotes string         `json:"verificationNotes,omitempty"`
	VerifiedAt        *time.Time     `json:"verifiedAt,omitempty"`
	UploadedAt        time.Time      `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:                doc.ID,
		ApplicationID:     doc.ApplicationID,
		FileName:          doc.FileName,
		OriginalFilename:  doc.OriginalFilename,
		MimeType:          doc.MimeType,
		SizeBytes:         doc.SizeBytes,
		URL:               doc.URL,
		DocumentType:      doc.DocumentType,
		Verified:          doc.Verified,
		ExtractedFields:   doc.ExtractedFields,
		VerificationNotes: doc.VerificationNotes,
		VerifiedAt:        doc.VerifiedAt,
		UploadedAt:        doc.UploadedAt,
	}
}

// StatsResponse is the admin statistics payload.
type StatsResponse struct {
	TotalDocuments    int64   `json:"totalDocuments"`
	VerifiedDocuments int64   `json:"verifiedDocuments"`
	PendingDocuments  int64   `json:"pendingDocuments"`
	AvgFileSize       float64 `json:"avgFileSize"`
}
