package sqlstore

import (
	auditDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/audit"
)

func (s *Store) ListAuditLogs(equipmentID string) ([]*auditDatamodel.AuditLog, error) {
	var entries []*auditDatamodel.AuditLog
	err := s.db.Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (s *Store) CreateAuditLog(entry *auditDatamodel.AuditLog) error {
	return s.db.Create(entry).Error
}
