package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/blobstore"
	documentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/document"
)

// Service handles document business logic
type Service struct {
	repo      Repository
	equipment ParentChecker
	audit     AuditRecorder
	blobs     blobstore.Store
	logger    *slog.Logger
}

// NewService creates a new document service
func NewService(repo Repository, equipment ParentChecker, audit AuditRecorder, blobs blobstore.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipment,
		audit:     audit,
		blobs:     blobs,
		logger:    logger,
	}
}

// ListDocuments returns an item's documents, newest upload first.
func (s *Service) ListDocuments(equipmentID string) ([]DocumentResponse, error) {
	docs, err := s.repo.ListDocuments(equipmentID)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "equipment_id", equipmentID)
		return nil, internal.NewStoreError(err)
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, ToResponse(doc))
	}
	return responses, nil
}

func (s *Service) GetDocument(id string) (*DocumentResponse, error) {
	doc, err := s.repo.GetDocument(id)
	if err != nil {
		s.logger.Error("failed to get document", "error", err, "document_id", id)
		return nil, err
	}

	resp := ToResponse(doc)
	return &resp, nil
}

// UploadDocument writes the blob first and the metadata row only after
// the blob store confirmed the upload, so a metadata row never points
// at a blob that does not exist. A failed metadata write cleans the
// fresh blob up best-effort.
func (s *Service) UploadDocument(ctx context.Context, equipmentID, filename string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (*DocumentResponse, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, internal.NewValidationError("filename is required", internal.ErrCodeValidationFailed)
	}

	if _, err := s.equipment.GetEquipment(equipmentID); err != nil {
		return nil, err
	}

	name := sanitizeFilename(filename)
	path := fmt.Sprintf("equipment/%s/docs/%d_%s", equipmentID, time.Now().UnixNano(), name)

	url, err := s.blobs.Upload(ctx, path, r, size, contentType, progress)
	if err != nil {
		s.logger.Error("document upload failed", "error", err, "equipment_id", equipmentID, "path", path)
		return nil, internal.NewStoreError(err)
	}

	doc := &documentDatamodel.Document{
		ID:          uuid.NewString(),
		EquipmentID: equipmentID,
		Name:        name,
		FileURL:     url,
		StoragePath: path,
		MimeType:    contentType,
		SizeBytes:   size,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateDocument(doc); err != nil {
		s.logger.Error("failed to save document metadata", "error", err, "equipment_id", equipmentID, "path", path)
		if cleanupErr := s.blobs.Delete(ctx, path); cleanupErr != nil {
			s.logger.Warn("orphaned blob cleanup failed", "error", cleanupErr, "path", path)
		}
		return nil, internal.NewStoreError(err)
	}

	s.audit.Record(ctx, equipmentID, "document_uploaded", fmt.Sprintf("document %s uploaded", name))

	s.logger.Info("document uploaded", "document_id", doc.ID, "equipment_id", equipmentID, "size_bytes", size)

	resp := ToResponse(doc)
	return &resp, nil
}

// DeleteDocument drops the blob and then the metadata row. A blob that
// is already gone counts as deleted; any other blob failure is logged
// and the metadata row is removed regardless.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.repo.GetDocument(id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.StoragePath); err != nil {
		s.logger.Warn("document blob delete failed, removing metadata anyway",
			"error", err,
			"document_id", id,
			"path", doc.StoragePath)
	}

	if err := s.repo.DeleteDocument(id); err != nil {
		s.logger.Error("failed to delete document metadata", "error", err, "document_id", id)
		return internal.NewStoreError(err)
	}

	s.audit.Record(ctx, doc.EquipmentID, "document_deleted", fmt.Sprintf("document %s deleted", doc.Name))

	s.logger.Info("document deleted", "document_id", id, "equipment_id", doc.EquipmentID)
	return nil
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "file"
	}
	return name
}
