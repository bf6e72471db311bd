package equipment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/blobstore"
	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
)

// Service handles equipment business logic
type Service struct {
	repo      Repository
	locations ParentChecker
	audit     AuditRecorder
	blobs     blobstore.Store
	logger    *slog.Logger
}

// NewService creates a new equipment service
func NewService(repo Repository, locations ParentChecker, audit AuditRecorder, blobs blobstore.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		locations: locations,
		audit:     audit,
		blobs:     blobs,
		logger:    logger,
	}
}

// ListEquipment returns equipment newest first, optionally scoped to a
// location.
func (s *Service) ListEquipment(locationID string) ([]EquipmentResponse, error) {
	items, err := s.repo.ListEquipment(locationID)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err, "location_id", locationID)
		return nil, internal.NewStoreError(err)
	}

	responses := make([]EquipmentResponse, 0, len(items))
	for _, eq := range items {
		responses = append(responses, ToResponse(eq))
	}
	return responses, nil
}

// ListEquipmentIDs exposes the child ids a location cascade walks.
func (s *Service) ListEquipmentIDs(locationID string) ([]string, error) {
	ids, err := s.repo.ListEquipmentIDs(locationID)
	if err != nil {
		return nil, internal.NewStoreError(err)
	}
	return ids, nil
}

func (s *Service) GetEquipment(id string) (*EquipmentResponse, error) {
	eq, err := s.repo.GetEquipment(id)
	if err != nil {
		s.logger.Error("failed to get equipment", "error", err, "equipment_id", id)
		return nil, err
	}

	resp := ToResponse(eq)
	return &resp, nil
}

func (s *Service) CreateEquipment(ctx context.Context, dto CreateEquipmentDTO) (*EquipmentResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("equipment validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.locations.GetLocation(dto.LocationID); err != nil {
		if errors.Is(err, internal.ErrLocationNotFound) {
			return nil, internal.NewValidationError("location does not exist", internal.ErrCodeMissingParent)
		}
		return nil, err
	}

	eq := &equipmentDatamodel.Equipment{
		ID:              uuid.NewString(),
		LocationID:      dto.LocationID,
		InventoryNumber: dto.InventoryNumber,
		Type:            dto.Type,
		Status:          dto.Status,
		SubLocation:     dto.SubLocation,
		Manufacturer:    dto.Manufacturer,
		Model:           dto.Model,
		SerialNumber:    dto.SerialNumber,
		IPAddress:       dto.IPAddress,
		MACAddress:      dto.MACAddress,
		PosX:            dto.PosX,
		PosY:            dto.PosY,
		PosZ:            dto.PosZ,
		InstallDate:     dto.InstallDate,
		WarrantyUntil:   dto.WarrantyUntil,
		InstalledBy:     dto.InstalledBy,
		TestedBy:        dto.TestedBy,
		Notes:           dto.Notes,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.repo.CreateEquipment(eq); err != nil {
		s.logger.Error("failed to create equipment", "error", err, "location_id", dto.LocationID)
		return nil, internal.NewStoreError(err)
	}

	s.audit.Record(ctx, eq.ID, "created", fmt.Sprintf("equipment %s created", describe(eq)))

	s.logger.Info("equipment created", "equipment_id", eq.ID, "location_id", eq.LocationID, "type", eq.Type)

	resp := ToResponse(eq)
	return &resp, nil
}

func (s *Service) UpdateEquipment(ctx context.Context, id string, dto UpdateEquipmentDTO) (*EquipmentResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("equipment validation failed", "error", err, "equipment_id", id)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetEquipment(id); err != nil {
		return nil, err
	}

	fields := dto.Fields()
	if len(fields) > 0 {
		if err := s.repo.UpdateEquipment(id, fields); err != nil {
			s.logger.Error("failed to update equipment", "error", err, "equipment_id", id)
			return nil, internal.NewStoreError(err)
		}
		s.audit.Record(ctx, id, "updated", fmt.Sprintf("%d field(s) changed", len(fields)))
	}

	return s.GetEquipment(id)
}

// DeleteEquipment removes an item and everything under it. The store
// cascade deletes documents, maintenance and audit rows before the item
// itself; blob cleanup runs afterwards and is best-effort only.
func (s *Service) DeleteEquipment(ctx context.Context, id string) error {
	eq, err := s.repo.GetEquipment(id)
	if err != nil {
		return err
	}

	docPaths, err := s.repo.ListDocumentStoragePaths(id)
	if err != nil {
		s.logger.Error("failed to list document paths for cleanup", "error", err, "equipment_id", id)
		return internal.NewStoreError(err)
	}

	if err := s.repo.DeleteEquipmentCascade(ctx, id); err != nil {
		s.logger.Error("equipment cascade failed, item kept", "error", err, "equipment_id", id)
		return internal.NewStoreError(err)
	}

	for _, path := range docPaths {
		if err := s.blobs.Delete(ctx, path); err != nil {
			s.logger.Warn("document blob cleanup failed", "error", err, "path", path)
		}
	}
	s.deletePhotoBlob(ctx, eq.PhotoURL)

	s.logger.Info("equipment deleted", "equipment_id", id, "cleaned_documents", len(docPaths))
	return nil
}

// UploadPhoto stores a new photo blob, points the item at it, then
// drops the previous photo best-effort.
func (s *Service) UploadPhoto(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (*EquipmentResponse, error) {
	eq, err := s.repo.GetEquipment(id)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("equipment/%s/photo/%d_%s", id, time.Now().UnixNano(), sanitizeFilename(filename))
	url, err := s.blobs.Upload(ctx, path, r, size, contentType, progress)
	if err != nil {
		s.logger.Error("photo upload failed", "error", err, "equipment_id", id)
		return nil, internal.NewStoreError(err)
	}

	if err := s.repo.UpdateEquipment(id, map[string]interface{}{"photo_url": url}); err != nil {
		s.logger.Error("failed to save photo url", "error", err, "equipment_id", id)
		s.deletePhotoBlob(ctx, url)
		return nil, internal.NewStoreError(err)
	}

	s.deletePhotoBlob(ctx, eq.PhotoURL)

	s.logger.Info("equipment photo uploaded", "equipment_id", id, "path", path)
	return s.GetEquipment(id)
}

// DeletePhoto clears the stored photo reference and drops the blob.
func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	eq, err := s.repo.GetEquipment(id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateEquipment(id, map[string]interface{}{"photo_url": ""}); err != nil {
		s.logger.Error("failed to clear photo url", "error", err, "equipment_id", id)
		return internal.NewStoreError(err)
	}

	s.deletePhotoBlob(ctx, eq.PhotoURL)
	return nil
}

func (s *Service) deletePhotoBlob(ctx context.Context, ref string) {
	path, ok := s.blobs.PathFromRef(ref)
	if !ok {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.logger.Warn("photo blob delete failed", "error", err, "path", path)
	}
}

func describe(eq *equipmentDatamodel.Equipment) string {
	if eq.InventoryNumber != "" {
		return fmt.Sprintf("%s (%s)", eq.Type, eq.InventoryNumber)
	}
	return eq.Type
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
