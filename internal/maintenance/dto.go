package maintenance

import (
	"errors"
	"strings"
	"time"
)

// AddMaintenanceDTO represents the request payload for adding a record
type AddMaintenanceDTO struct {
	Type        string     `json:"type" validate:"required"`
	Date        time.Time  `json:"date" validate:"required"`
	Description string     `json:"description,omitempty"`
	PerformedBy string     `json:"performed_by,omitempty"`
	Cost        float64    `json:"cost"`
	NextDue     *time.Time `json:"next_due,omitempty"`
}

// Validate validates the AddMaintenanceDTO
func (dto AddMaintenanceDTO) Validate() error {
	if strings.TrimSpace(dto.Type) == "" {
		return errors.New("type is required")
	}
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	if dto.Cost < 0 {
		return errors.New("cost cannot be negative")
	}
	return nil
}
