package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frahmantamala/equipment-tracking/internal"
	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
)

func (s *Store) ListEquipment(locationID string) ([]*equipmentDatamodel.Equipment, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{}
	if locationID != "" {
		filter["location_id"] = locationID
	}

	cursor, err := s.db.Collection(collEquipment).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	items := make([]*equipmentDatamodel.Equipment, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListEquipmentIDs(locationID string) ([]string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collEquipment).Find(ctx,
		bson.M{"location_id": locationID},
		options.Find().
			SetProjection(bson.M{"_id": 1}).
			SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (s *Store) GetEquipment(id string) (*equipmentDatamodel.Equipment, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var eq equipmentDatamodel.Equipment
	err := s.db.Collection(collEquipment).FindOne(ctx, bson.M{"_id": id}).Decode(&eq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, internal.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &eq, nil
}

func (s *Store) CreateEquipment(eq *equipmentDatamodel.Equipment) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collEquipment).InsertOne(ctx, eq)
	return err
}

func (s *Store) UpdateEquipment(id string, fields map[string]interface{}) error {
	ctx, cancel := opCtx()
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.db.Collection(collEquipment).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return internal.ErrEquipmentNotFound
	}
	return nil
}

// DeleteEquipmentCascade removes children before the item. Without a
// cross-collection transaction the ordering is the guarantee: if any
// child batch fails the item document is still there, and a retry
// resumes where the last attempt stopped.
func (s *Store) DeleteEquipmentCascade(ctx context.Context, id string) error {
	childFilter := bson.M{"equipment_id": id}

	for _, coll := range []string{collDocuments, collMaintenance, collAuditLogs} {
		if err := s.deleteChunked(ctx, coll, childFilter); err != nil {
			return err
		}
	}

	res, err := s.db.Collection(collEquipment).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return internal.ErrEquipmentNotFound
	}
	return nil
}

func (s *Store) ListDocumentStoragePaths(equipmentID string) ([]string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collDocuments).Find(ctx,
		bson.M{"equipment_id": equipmentID},
		options.Find().SetProjection(bson.M{"storage_path": 1}))
	if err != nil {
		return nil, err
	}

	var docs []struct {
		StoragePath string `bson:"storage_path"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		paths = append(paths, doc.StoragePath)
	}
	return paths, nil
}
