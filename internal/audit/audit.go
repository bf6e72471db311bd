package audit

import (
	"time"

	auditDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/audit"
)

// Repository is the audit portion of the store facade. Lists come back
// newest-timestamp-first.
type Repository interface {
	ListAuditLogs(equipmentID string) ([]*auditDatamodel.AuditLog, error)
	CreateAuditLog(entry *auditDatamodel.AuditLog) error
}

type EntryResponse struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	Action      string    `json:"action"`
	Details     string    `json:"details,omitempty"`
	ActorID     *string   `json:"actor_id,omitempty"`
	ActorEmail  *string   `json:"actor_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToResponse(e *auditDatamodel.AuditLog) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		EquipmentID: e.EquipmentID,
		Action:      e.Action,
		Details:     e.Details,
		ActorID:     e.ActorID,
		ActorEmail:  e.ActorEmail,
		CreatedAt:   e.CreatedAt,
	}
}
