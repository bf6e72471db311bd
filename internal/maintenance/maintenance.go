package maintenance

import (
	"context"
	"time"

	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/maintenance"
)

// Repository defines the data access methods for maintenance records.
// The history is append-only and listed newest-date-first.
type Repository interface {
	ListMaintenance(equipmentID string) ([]*maintenanceDatamodel.MaintenanceRecord, error)
	CreateMaintenance(rec *maintenanceDatamodel.MaintenanceRecord) error
}

type ParentChecker interface {
	GetEquipment(id string) (*equipmentDatamodel.Equipment, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, equipmentID, action, details string)
}

// RecordResponse is the API representation of a maintenance record
type RecordResponse struct {
	ID          string     `json:"id"`
	EquipmentID string     `json:"equipment_id"`
	Type        string     `json:"type"`
	Date        time.Time  `json:"date"`
	Description string     `json:"description,omitempty"`
	PerformedBy string     `json:"performed_by,omitempty"`
	Cost        float64    `json:"cost"`
	NextDue     *time.Time `json:"next_due,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToResponse(rec *maintenanceDatamodel.MaintenanceRecord) RecordResponse {
	return RecordResponse{
		ID:          rec.ID,
		EquipmentID: rec.EquipmentID,
		Type:        rec.Type,
		Date:        rec.Date,
		Description: rec.Description,
		PerformedBy: rec.PerformedBy,
		Cost:        rec.Cost,
		NextDue:     rec.NextDue,
		CreatedAt:   rec.CreatedAt,
	}
}
