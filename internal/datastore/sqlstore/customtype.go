package sqlstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/equipment-tracking/internal"
	customtypeDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/customtype"
)

func (s *Store) ListTypes() ([]*customtypeDatamodel.CustomType, error) {
	var types []*customtypeDatamodel.CustomType
	err := s.db.Order("created_at ASC").Find(&types).Error
	return types, err
}

// GetTypeByName is an exact, case-sensitive match; no row is (nil, nil).
func (s *Store) GetTypeByName(name string) (*customtypeDatamodel.CustomType, error) {
	var ct customtypeDatamodel.CustomType
	err := s.db.Where("name = ?", name).First(&ct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ct, nil
}

func (s *Store) CreateType(ct *customtypeDatamodel.CustomType) error {
	if err := s.db.Create(ct).Error; err != nil {
		if isDuplicateKey(err) {
			return internal.ErrDuplicateType
		}
		return err
	}
	return nil
}
