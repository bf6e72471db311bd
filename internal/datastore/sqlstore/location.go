package sqlstore

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/equipment-tracking/internal"
	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
)

func (s *Store) ListLocations() ([]*locationDatamodel.Location, error) {
	var locations []*locationDatamodel.Location
	err := s.db.Order("created_at DESC").Find(&locations).Error
	return locations, err
}

func (s *Store) GetLocation(id string) (*locationDatamodel.Location, error) {
	var loc locationDatamodel.Location
	err := s.db.Where("id = ?", id).First(&loc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLocationNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (s *Store) CreateLocation(loc *locationDatamodel.Location) error {
	return s.db.Create(loc).Error
}

func (s *Store) UpdateLocation(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	res := s.db.Model(&locationDatamodel.Location{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrLocationNotFound
	}
	return nil
}

func (s *Store) DeleteLocation(id string) error {
	res := s.db.Where("id = ?", id).Delete(&locationDatamodel.Location{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrLocationNotFound
	}
	return nil
}
