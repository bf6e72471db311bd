package document

import (
	"context"
	"time"

	documentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/document"
	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
)

// Repository defines the data access methods for document metadata.
// Listing is newest-uploaded-first; GetDocument returns
// ErrDocumentNotFound for a missing id.
type Repository interface {
	ListDocuments(equipmentID string) ([]*documentDatamodel.Document, error)
	GetDocument(id string) (*documentDatamodel.Document, error)
	CreateDocument(doc *documentDatamodel.Document) error
	DeleteDocument(id string) error
}

// ParentChecker verifies the owning equipment item exists before a
// document is attached to it.
type ParentChecker interface {
	GetEquipment(id string) (*equipmentDatamodel.Equipment, error)
}

// AuditRecorder appends an audit entry best-effort.
type AuditRecorder interface {
	Record(ctx context.Context, equipmentID, action, details string)
}

// DocumentResponse is the API representation of a document
type DocumentResponse struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	Name        string    `json:"name"`
	FileURL     string    `json:"file_url"`
	MimeType    string    `json:"mime_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func ToResponse(doc *documentDatamodel.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		EquipmentID: doc.EquipmentID,
		Name:        doc.Name,
		FileURL:     doc.FileURL,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		UploadedAt:  doc.UploadedAt,
	}
}
