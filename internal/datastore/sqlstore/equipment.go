package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/equipment-tracking/internal"
	auditDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/audit"
	documentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/document"
	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/maintenance"
)

func (s *Store) ListEquipment(locationID string) ([]*equipmentDatamodel.Equipment, error) {
	q := s.db.Order("created_at DESC")
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}
	var items []*equipmentDatamodel.Equipment
	err := q.Find(&items).Error
	return items, err
}

func (s *Store) ListEquipmentIDs(locationID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&equipmentDatamodel.Equipment{}).
		Where("location_id = ?", locationID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *Store) GetEquipment(id string) (*equipmentDatamodel.Equipment, error) {
	var eq equipmentDatamodel.Equipment
	err := s.db.Where("id = ?", id).First(&eq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &eq, nil
}

func (s *Store) CreateEquipment(eq *equipmentDatamodel.Equipment) error {
	return s.db.Create(eq).Error
}

func (s *Store) UpdateEquipment(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	res := s.db.Model(&equipmentDatamodel.Equipment{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEquipmentNotFound
	}
	return nil
}

// DeleteEquipmentCascade removes the item's documents, maintenance
// history and audit trail before the item itself, all inside one
// transaction: either the whole subtree goes or none of it does.
func (s *Store) DeleteEquipmentCascade(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChunked(tx, &documentDatamodel.Document{}, "equipment_id", id); err != nil {
			return err
		}
		if err := deleteChunked(tx, &maintenanceDatamodel.MaintenanceRecord{}, "equipment_id", id); err != nil {
			return err
		}
		if err := deleteChunked(tx, &auditDatamodel.AuditLog{}, "equipment_id", id); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&equipmentDatamodel.Equipment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrEquipmentNotFound
		}
		return nil
	})
}

func (s *Store) ListDocumentStoragePaths(equipmentID string) ([]string, error) {
	var paths []string
	err := s.db.Model(&documentDatamodel.Document{}).
		Where("equipment_id = ?", equipmentID).
		Pluck("storage_path", &paths).Error
	return paths, err
}
