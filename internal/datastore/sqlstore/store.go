// Package sqlstore is the relational implementation of the persistence
// facade, GORM over postgres in production and sqlite in development.
package sqlstore

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
)

// cascade deletes walk child rows in batches of this size so a large
// subtree never turns into one unbounded statement.
const cascadeChunkSize = 500

type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore wraps an open GORM handle. The handle must be opened with
// TranslateError enabled so uniqueness violations surface as
// gorm.ErrDuplicatedKey.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// deleteChunked removes all rows whose fkColumn matches fkValue in
// bounded batches, so the children of a cascade never go in one
// unbounded statement.
func deleteChunked(tx *gorm.DB, model interface{}, fkColumn string, fkValue interface{}) error {
	for {
		sub := tx.Session(&gorm.Session{NewDB: true}).
			Model(model).
			Select("id").
			Where(fkColumn+" = ?", fkValue).
			Limit(cascadeChunkSize)

		res := tx.Where("id IN (?)", sub).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < cascadeChunkSize {
			return nil
		}
	}
}
