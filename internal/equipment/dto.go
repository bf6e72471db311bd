package equipment

import (
	"errors"
	"strings"
	"time"

	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
)

// CreateEquipmentDTO represents the request payload for creating equipment
type CreateEquipmentDTO struct {
	LocationID      string     `json:"location_id" validate:"required"`
	InventoryNumber string     `json:"inventory_number,omitempty"`
	Type            string     `json:"type,omitempty"`
	Status          string     `json:"status,omitempty"`
	SubLocation     string     `json:"sub_location,omitempty"`
	Manufacturer    string     `json:"manufacturer,omitempty"`
	Model           string     `json:"model,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	IPAddress       string     `json:"ip_address,omitempty"`
	MACAddress      string     `json:"mac_address,omitempty"`
	PosX            int        `json:"pos_x"`
	PosY            int        `json:"pos_y"`
	PosZ            int        `json:"pos_z"`
	InstallDate     *time.Time `json:"install_date,omitempty"`
	WarrantyUntil   *time.Time `json:"warranty_until,omitempty"`
	InstalledBy     string     `json:"installed_by,omitempty"`
	TestedBy        string     `json:"tested_by,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// Validate validates the CreateEquipmentDTO
func (dto CreateEquipmentDTO) Validate() error {
	if strings.TrimSpace(dto.LocationID) == "" {
		return errors.New("location_id is required")
	}
	if strings.TrimSpace(dto.Type) == "" {
		return errors.New("type is required")
	}
	return nil
}

// UpdateEquipmentDTO carries a partial update: nil fields are left
// untouched on the stored row.
type UpdateEquipmentDTO struct {
	InventoryNumber *string    `json:"inventory_number,omitempty"`
	Type            *string    `json:"type,omitempty"`
	Status          *string    `json:"status,omitempty"`
	SubLocation     *string    `json:"sub_location,omitempty"`
	Manufacturer    *string    `json:"manufacturer,omitempty"`
	Model           *string    `json:"model,omitempty"`
	SerialNumber    *string    `json:"serial_number,omitempty"`
	IPAddress       *string    `json:"ip_address,omitempty"`
	MACAddress      *string    `json:"mac_address,omitempty"`
	PosX            *int       `json:"pos_x,omitempty"`
	PosY            *int       `json:"pos_y,omitempty"`
	PosZ            *int       `json:"pos_z,omitempty"`
	InstallDate     *time.Time `json:"install_date,omitempty"`
	WarrantyUntil   *time.Time `json:"warranty_until,omitempty"`
	InstalledBy     *string    `json:"installed_by,omitempty"`
	TestedBy        *string    `json:"tested_by,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// Validate validates the UpdateEquipmentDTO
func (dto UpdateEquipmentDTO) Validate() error {
	if dto.Type != nil && strings.TrimSpace(*dto.Type) == "" {
		return errors.New("type cannot be empty")
	}
	return nil
}

// Fields flattens the DTO into the column map the repositories apply.
func (dto UpdateEquipmentDTO) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setInt := func(col string, v *int) {
		if v != nil {
			fields[col] = *v
		}
	}
	setString("inventory_number", dto.InventoryNumber)
	setString("type", dto.Type)
	setString("status", dto.Status)
	setString("sub_location", dto.SubLocation)
	setString("manufacturer", dto.Manufacturer)
	setString("model", dto.Model)
	setString("serial_number", dto.SerialNumber)
	setString("ip_address", dto.IPAddress)
	setString("mac_address", dto.MACAddress)
	setInt("pos_x", dto.PosX)
	setInt("pos_y", dto.PosY)
	setInt("pos_z", dto.PosZ)
	if dto.InstallDate != nil {
		fields["install_date"] = *dto.InstallDate
	}
	if dto.WarrantyUntil != nil {
		fields["warranty_until"] = *dto.WarrantyUntil
	}
	setString("installed_by", dto.InstalledBy)
	setString("tested_by", dto.TestedBy)
	setString("notes", dto.Notes)
	return fields
}

// EquipmentResponse is the API representation of an equipment item
type EquipmentResponse struct {
	ID              string     `json:"id"`
	LocationID      string     `json:"location_id"`
	InventoryNumber string     `json:"inventory_number,omitempty"`
	Type            string     `json:"type,omitempty"`
	Status          string     `json:"status,omitempty"`
	SubLocation     string     `json:"sub_location,omitempty"`
	Manufacturer    string     `json:"manufacturer,omitempty"`
	Model           string     `json:"model,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	IPAddress       string     `json:"ip_address,omitempty"`
	MACAddress      string     `json:"mac_address,omitempty"`
	PosX            int        `json:"pos_x"`
	PosY            int        `json:"pos_y"`
	PosZ            int        `json:"pos_z"`
	InstallDate     *time.Time `json:"install_date,omitempty"`
	WarrantyUntil   *time.Time `json:"warranty_until,omitempty"`
	InstalledBy     string     `json:"installed_by,omitempty"`
	TestedBy        string     `json:"tested_by,omitempty"`
	PhotoURL        string     `json:"photo_url,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToResponse(eq *equipmentDatamodel.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:              eq.ID,
		LocationID:      eq.LocationID,
		InventoryNumber: eq.InventoryNumber,
		Type:            eq.Type,
		Status:          eq.Status,
		SubLocation:     eq.SubLocation,
		Manufacturer:    eq.Manufacturer,
		Model:           eq.Model,
		SerialNumber:    eq.SerialNumber,
		IPAddress:       eq.IPAddress,
		MACAddress:      eq.MACAddress,
		PosX:            eq.PosX,
		PosY:            eq.PosY,
		PosZ:            eq.PosZ,
		InstallDate:     eq.InstallDate,
		WarrantyUntil:   eq.WarrantyUntil,
		InstalledBy:     eq.InstalledBy,
		TestedBy:        eq.TestedBy,
		PhotoURL:        eq.PhotoURL,
		Notes:           eq.Notes,
		CreatedAt:       eq.CreatedAt,
		UpdatedAt:       eq.UpdatedAt,
	}
}
