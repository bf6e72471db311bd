package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/equipment-tracking/internal"
	maintenanceDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/maintenance"
)

// Service handles maintenance history. Records are append-only; there
// is no update or delete short of the owning item's cascade.
type Service struct {
	repo      Repository
	equipment ParentChecker
	audit     AuditRecorder
	logger    *slog.Logger
}

func NewService(repo Repository, equipment ParentChecker, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipment,
		audit:     audit,
		logger:    logger,
	}
}

// ListMaintenance returns an item's history, newest date first.
func (s *Service) ListMaintenance(equipmentID string) ([]RecordResponse, error) {
	records, err := s.repo.ListMaintenance(equipmentID)
	if err != nil {
		s.logger.Error("failed to list maintenance", "error", err, "equipment_id", equipmentID)
		return nil, internal.NewStoreError(err)
	}

	responses := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, ToResponse(rec))
	}
	return responses, nil
}

func (s *Service) AddMaintenance(ctx context.Context, equipmentID string, dto AddMaintenanceDTO) (*RecordResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("maintenance validation failed", "error", err, "equipment_id", equipmentID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.equipment.GetEquipment(equipmentID); err != nil {
		return nil, err
	}

	rec := &maintenanceDatamodel.MaintenanceRecord{
		ID:          uuid.NewString(),
		EquipmentID: equipmentID,
		Type:        dto.Type,
		Date:        dto.Date,
		Description: dto.Description,
		PerformedBy: dto.PerformedBy,
		Cost:        dto.Cost,
		NextDue:     dto.NextDue,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateMaintenance(rec); err != nil {
		s.logger.Error("failed to create maintenance record", "error", err, "equipment_id", equipmentID)
		return nil, internal.NewStoreError(err)
	}

	s.audit.Record(ctx, equipmentID, "maintenance_added", fmt.Sprintf("%s maintenance on %s", rec.Type, rec.Date.Format("2006-01-02")))

	s.logger.Info("maintenance record added", "record_id", rec.ID, "equipment_id", equipmentID, "type", rec.Type)

	resp := ToResponse(rec)
	return &resp, nil
}
