package equipment

import (
	"context"

	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
)

// Repository defines the data access methods for equipment. Listing is
// newest-created-first; an empty locationID lists across all locations.
// DeleteEquipmentCascade removes the documents, maintenance records and
// audit entries under the item before the item itself, and never leaves
// a half-deleted item behind.
type Repository interface {
	ListEquipment(locationID string) ([]*equipmentDatamodel.Equipment, error)
	ListEquipmentIDs(locationID string) ([]string, error)
	GetEquipment(id string) (*equipmentDatamodel.Equipment, error)
	CreateEquipment(eq *equipmentDatamodel.Equipment) error
	UpdateEquipment(id string, fields map[string]interface{}) error
	DeleteEquipmentCascade(ctx context.Context, id string) error

	// ListDocumentStoragePaths returns the blob paths of every document
	// under the item, for best-effort cleanup after a cascade.
	ListDocumentStoragePaths(equipmentID string) ([]string, error)
}

// ParentChecker verifies the owning location exists before an item is
// created or moved under it.
type ParentChecker interface {
	GetLocation(id string) (*locationDatamodel.Location, error)
}

// AuditRecorder appends an audit entry best-effort; failures never
// propagate to the caller.
type AuditRecorder interface {
	Record(ctx context.Context, equipmentID, action, details string)
}
