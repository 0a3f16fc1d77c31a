package documents

import "time"

// DocumentType is the declared purpose of an uploaded file. It drives which
// verification heuristic runs; types without a heuristic stay unverified
// until an admin reviews them.
type DocumentType string

const (
	TypePreviousYearMemo     DocumentType = "previous_year_memo"
	TypeCasteCertificate     DocumentType = "caste_certificate"
	TypeAadharCard           DocumentType = "aadhar_card"
	TypeHealthCertificate    DocumentType = "health_certificate"
	TypeLeagueCertifications DocumentType = "league_certifications"
	TypeTranscript           DocumentType = "transcript"
	TypeRecommendation       DocumentType = "recommendation"
	TypeIdentity             DocumentType = "id"
	TypeOther                DocumentType = "other"
)

var documentTypes = map[DocumentType]struct{}{
	TypePreviousYearMemo:     {},
	TypeCasteCertificate:     {},
	TypeAadharCard:           {},
	TypeHealthCertificate:    {},
	TypeLeagueCertifications: {},
	TypeTranscript:           {},
	TypeRecommendation:       {},
	TypeIdentity:             {},
	TypeOther:                {},
}

// ParseDocumentType validates a wire value against the closed enum.
func ParseDocumentType(s string) (DocumentType, bool) {
	dt := DocumentType(s)
	_, ok := documentTypes[dt]
	return dt, ok
}

// MaxUploadBytes is the per-file size limit.
const MaxUploadBytes = 10 << 20 // 10MB

var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// MimeTypeAllowed reports whether the declared MIME type may be uploaded.
func MimeTypeAllowed(mimeType string) bool {
	_, ok := allowedMimeTypes[mimeType]
	return ok
}

// Document represents one uploaded file attached to an application.
// Access control is resolved through the owning application.
type Document struct {
	ID                string
	ApplicationID     string
	FileName          string
	OriginalFilename  string
	MimeType          string
	SizeBytes         int64
	StorageKey        string
	URL               string
	DocumentType      DocumentType
	Verified          bool
	ExtractedFields   map[string]any
	VerificationNotes string
	VerifiedAt        *time.Time
	UploadedAt        time.Time
}

// Stats aggregates verification progress across all documents.
type Stats struct {
	TotalDocuments    int64
	VerifiedDocuments int64
	PendingDocuments  int64
	AvgFileSize       float64
}
