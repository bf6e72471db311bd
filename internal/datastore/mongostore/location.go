package mongostore

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frahmantamala/equipment-tracking/internal"
	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
)

func (s *Store) ListLocations() ([]*locationDatamodel.Location, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collLocations).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	locations := make([]*locationDatamodel.Location, 0)
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *Store) GetLocation(id string) (*locationDatamodel.Location, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var loc locationDatamodel.Location
	err := s.db.Collection(collLocations).FindOne(ctx, bson.M{"_id": id}).Decode(&loc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, internal.ErrLocationNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (s *Store) CreateLocation(loc *locationDatamodel.Location) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collLocations).InsertOne(ctx, loc)
	return err
}

func (s *Store) UpdateLocation(id string, fields map[string]interface{}) error {
	ctx, cancel := opCtx()
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.db.Collection(collLocations).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return internal.ErrLocationNotFound
	}
	return nil
}

func (s *Store) DeleteLocation(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.db.Collection(collLocations).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return internal.ErrLocationNotFound
	}
	return nil
}
