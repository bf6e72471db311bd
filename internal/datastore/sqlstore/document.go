package sqlstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/equipment-tracking/internal"
	documentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/document"
)

func (s *Store) ListDocuments(equipmentID string) ([]*documentDatamodel.Document, error) {
	var docs []*documentDatamodel.Document
	err := s.db.Where("equipment_id = ?", equipmentID).
		Order("uploaded_at DESC").
		Find(&docs).Error
	return docs, err
}

func (s *Store) GetDocument(id string) (*documentDatamodel.Document, error) {
	var doc documentDatamodel.Document
	err := s.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) CreateDocument(doc *documentDatamodel.Document) error {
	return s.db.Create(doc).Error
}

func (s *Store) DeleteDocument(id string) error {
	res := s.db.Where("id = ?", id).Delete(&documentDatamodel.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrDocumentNotFound
	}
	return nil
}
