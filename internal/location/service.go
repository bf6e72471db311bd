package location

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
	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
)

// Service handles location business logic
type Service struct {
	repo      Repository
	equipment EquipmentCascader
	blobs     blobstore.Store
	logger    *slog.Logger
}

// NewService creates a new location service
func NewService(repo Repository, equipment EquipmentCascader, blobs blobstore.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipment,
		blobs:     blobs,
		logger:    logger,
	}
}

// ListLocations returns all locations, newest first.
func (s *Service) ListLocations() ([]LocationResponse, error) {
	locations, err := s.repo.ListLocations()
	if err != nil {
		s.logger.Error("failed to list locations", "error", err)
		return nil, internal.NewStoreError(err)
	}

	responses := make([]LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, ToResponse(loc))
	}
	return responses, nil
}

func (s *Service) GetLocation(id string) (*LocationResponse, error) {
	loc, err := s.repo.GetLocation(id)
	if err != nil {
		s.logger.Error("failed to get location", "error", err, "location_id", id)
		return nil, err
	}

	resp := ToResponse(loc)
	return &resp, nil
}

func (s *Service) CreateLocation(dto CreateLocationDTO) (*LocationResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("location validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	loc := &locationDatamodel.Location{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(dto.Name),
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Address:     dto.Address,
		Description: dto.Description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateLocation(loc); err != nil {
		s.logger.Error("failed to create location", "error", err, "name", loc.Name)
		return nil, internal.NewStoreError(err)
	}

	s.logger.Info("location created", "location_id", loc.ID, "name", loc.Name)

	resp := ToResponse(loc)
	return &resp, nil
}

func (s *Service) UpdateLocation(id string, dto UpdateLocationDTO) (*LocationResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("location validation failed", "error", err, "location_id", id)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetLocation(id); err != nil {
		return nil, err
	}

	fields := dto.Fields()
	if len(fields) > 0 {
		if err := s.repo.UpdateLocation(id, fields); err != nil {
			s.logger.Error("failed to update location", "error", err, "location_id", id)
			return nil, internal.NewStoreError(err)
		}
	}

	return s.GetLocation(id)
}

// DeleteLocation removes a location and everything under it. Equipment
// children are deleted first, one by one; the location row is touched
// only after every child is gone, so a mid-cascade failure leaves the
// parent (and the not-yet-processed children) intact.
func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	loc, err := s.repo.GetLocation(id)
	if err != nil {
		return err
	}

	equipmentIDs, err := s.equipment.ListEquipmentIDs(id)
	if err != nil {
		s.logger.Error("failed to list equipment for cascade", "error", err, "location_id", id)
		return internal.NewStoreError(err)
	}

	for _, equipmentID := range equipmentIDs {
		if err := s.equipment.DeleteEquipment(ctx, equipmentID); err != nil {
			s.logger.Error("cascade aborted, location kept",
				"error", err,
				"location_id", id,
				"equipment_id", equipmentID)
			return err
		}
	}

	if err := s.repo.DeleteLocation(id); err != nil {
		s.logger.Error("failed to delete location", "error", err, "location_id", id)
		return internal.NewStoreError(err)
	}

	s.deletePhotoBlob(ctx, loc.PhotoURL)

	s.logger.Info("location deleted", "location_id", id, "cascaded_equipment", len(equipmentIDs))
	return nil
}

// UploadPhoto stores a new photo blob, points the location at it, and
// then drops the previous photo best-effort.
func (s *Service) UploadPhoto(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (*LocationResponse, error) {
	loc, err := s.repo.GetLocation(id)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("locations/%s/photo/%d_%s", id, time.Now().UnixNano(), sanitizeFilename(filename))
	url, err := s.blobs.Upload(ctx, path, r, size, contentType, progress)
	if err != nil {
		s.logger.Error("photo upload failed", "error", err, "location_id", id)
		return nil, internal.NewStoreError(err)
	}

	if err := s.repo.UpdateLocation(id, map[string]interface{}{"photo_url": url}); err != nil {
		s.logger.Error("failed to save photo url", "error", err, "location_id", id)
		s.deletePhotoBlob(ctx, url)
		return nil, internal.NewStoreError(err)
	}

	s.deletePhotoBlob(ctx, loc.PhotoURL)

	s.logger.Info("location photo uploaded", "location_id", id, "path", path)
	return s.GetLocation(id)
}

// DeletePhoto clears the stored photo reference and drops the blob.
func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	loc, err := s.repo.GetLocation(id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateLocation(id, map[string]interface{}{"photo_url": ""}); err != nil {
		s.logger.Error("failed to clear photo url", "error", err, "location_id", id)
		return internal.NewStoreError(err)
	}

	s.deletePhotoBlob(ctx, loc.PhotoURL)
	return nil
}

// deletePhotoBlob is best-effort: empty refs and refs outside our blob
// namespace are ignored, and delete failures are only logged.
func (s *Service) deletePhotoBlob(ctx context.Context, ref string) {
	path, ok := s.blobs.PathFromRef(ref)
	if !ok {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.logger.Warn("photo blob delete failed", "error", err, "path", path)
	}
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
