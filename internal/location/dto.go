package location

import (
	"errors"
	"strings"
	"time"

	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
)

// CreateLocationDTO represents the request payload for creating a location
type CreateLocationDTO struct {
	Name        string  `json:"name" validate:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Validate validates the CreateLocationDTO
func (dto CreateLocationDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if dto.Latitude < -90 || dto.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if dto.Longitude < -180 || dto.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// UpdateLocationDTO carries a partial update: nil fields are left
// untouched on the stored row.
type UpdateLocationDTO struct {
	Name        *string  `json:"name,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// Validate validates the UpdateLocationDTO
func (dto UpdateLocationDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Latitude != nil && (*dto.Latitude < -90 || *dto.Latitude > 90) {
		return errors.New("latitude must be between -90 and 90")
	}
	if dto.Longitude != nil && (*dto.Longitude < -180 || *dto.Longitude > 180) {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// Fields flattens the DTO into the column map the repositories apply.
func (dto UpdateLocationDTO) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if dto.Name != nil {
		fields["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Latitude != nil {
		fields["latitude"] = *dto.Latitude
	}
	if dto.Longitude != nil {
		fields["longitude"] = *dto.Longitude
	}
	if dto.Address != nil {
		fields["address"] = *dto.Address
	}
	if dto.Description != nil {
		fields["description"] = *dto.Description
	}
	return fields
}

// LocationResponse is the API representation of a location
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToResponse(loc *locationDatamodel.Location) LocationResponse {
	return LocationResponse{
		ID:          loc.ID,
		Name:        loc.Name,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Address:     loc.Address,
		Description: loc.Description,
		PhotoURL:    loc.PhotoURL,
		CreatedAt:   loc.CreatedAt,
		UpdatedAt:   loc.UpdatedAt,
	}
}
