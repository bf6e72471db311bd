package sqlstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/equipment-tracking/internal"
	userDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/user"
)

func (s *Store) GetAllowedUserByEmail(email string) (*userDatamodel.AllowedUser, error) {
	var row userDatamodel.AllowedUser
	err := s.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) ListAllowedUsers() ([]*userDatamodel.AllowedUser, error) {
	var rows []*userDatamodel.AllowedUser
	err := s.db.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) CreateAllowedUser(u *userDatamodel.AllowedUser) error {
	if err := s.db.Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return internal.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (s *Store) UpdateAllowedUser(id string, fields map[string]interface{}) error {
	res := s.db.Model(&userDatamodel.AllowedUser{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAllowedUserNotFound
	}
	return nil
}

func (s *Store) DeleteAllowedUser(id string) error {
	res := s.db.Where("id = ?", id).Delete(&userDatamodel.AllowedUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAllowedUserNotFound
	}
	return nil
}

func (s *Store) GetIdentityByEmail(email string) (*userDatamodel.Identity, error) {
	var row userDatamodel.Identity
	err := s.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) CreateIdentity(identity *userDatamodel.Identity) error {
	if err := s.db.Create(identity).Error; err != nil {
		if isDuplicateKey(err) {
			return internal.ErrDuplicateUser
		}
		return err
	}
	return nil
}
