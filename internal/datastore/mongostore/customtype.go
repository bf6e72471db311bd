package mongostore

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frahmantamala/equipment-tracking/internal"
	customtypeDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/customtype"
)

func (s *Store) ListTypes() ([]*customtypeDatamodel.CustomType, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collCustomTypes).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	types := make([]*customtypeDatamodel.CustomType, 0)
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// GetTypeByName is an exact, case-sensitive match; no row is (nil, nil).
func (s *Store) GetTypeByName(name string) (*customtypeDatamodel.CustomType, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var ct customtypeDatamodel.CustomType
	err := s.db.Collection(collCustomTypes).FindOne(ctx, bson.M{"name": name}).Decode(&ct)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &ct, nil
}

func (s *Store) CreateType(ct *customtypeDatamodel.CustomType) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collCustomTypes).InsertOne(ctx, ct)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.ErrDuplicateType
		}
		return err
	}
	return nil
}
