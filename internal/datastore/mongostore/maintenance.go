package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	maintenanceDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/maintenance"
)

func (s *Store) ListMaintenance(equipmentID string) ([]*maintenanceDatamodel.MaintenanceRecord, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collMaintenance).Find(ctx,
		bson.M{"equipment_id": equipmentID},
		options.Find().SetSort(bson.D{
			{Key: "date", Value: -1},
			{Key: "created_at", Value: -1},
		}))
	if err != nil {
		return nil, err
	}

	records := make([]*maintenanceDatamodel.MaintenanceRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) CreateMaintenance(rec *maintenanceDatamodel.MaintenanceRecord) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collMaintenance).InsertOne(ctx, rec)
	return err
}
