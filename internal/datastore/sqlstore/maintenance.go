package sqlstore

import (
	maintenanceDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/maintenance"
)

func (s *Store) ListMaintenance(equipmentID string) ([]*maintenanceDatamodel.MaintenanceRecord, error) {
	var records []*maintenanceDatamodel.MaintenanceRecord
	err := s.db.Where("equipment_id = ?", equipmentID).
		Order("date DESC, created_at DESC").
		Find(&records).Error
	return records, err
}

func (s *Store) CreateMaintenance(rec *maintenanceDatamodel.MaintenanceRecord) error {
	return s.db.Create(rec).Error
}
