package customtype

import (
	"time"

	customtypeDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/customtype"
)

// Repository defines the data access methods for the custom equipment
// type registry. Listing is oldest-created-first. GetTypeByName is an
// exact, case-sensitive match and returns (nil, nil) for no row.
// CreateType maps a uniqueness conflict to ErrDuplicateType.
type Repository interface {
	ListTypes() ([]*customtypeDatamodel.CustomType, error)
	GetTypeByName(name string) (*customtypeDatamodel.CustomType, error)
	CreateType(ct *customtypeDatamodel.CustomType) error
}

// TypeResponse is the API representation of a custom type
type TypeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(ct *customtypeDatamodel.CustomType) TypeResponse {
	return TypeResponse{
		ID:        ct.ID,
		Name:      ct.Name,
		CreatedAt: ct.CreatedAt,
	}
}
