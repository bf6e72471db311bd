package location

import (
	"context"

	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
)

// Repository defines the data access methods for locations. Listing is
// newest-created-first; GetLocation returns ErrLocationNotFound for a
// missing id.
type Repository interface {
	ListLocations() ([]*locationDatamodel.Location, error)
	GetLocation(id string) (*locationDatamodel.Location, error)
	CreateLocation(loc *locationDatamodel.Location) error
	UpdateLocation(id string, fields map[string]interface{}) error
	DeleteLocation(id string) error
}

// EquipmentCascader is the slice of the equipment service a location
// delete needs: enumerate the children and remove them one by one
// before the parent row goes away.
type EquipmentCascader interface {
	ListEquipmentIDs(locationID string) ([]string, error)
	DeleteEquipment(ctx context.Context, id string) error
}
