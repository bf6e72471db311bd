package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/audit"
)

func (s *Store) ListAuditLogs(equipmentID string) ([]*auditDatamodel.AuditLog, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collAuditLogs).Find(ctx,
		bson.M{"equipment_id": equipmentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	entries := make([]*auditDatamodel.AuditLog, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreateAuditLog(entry *auditDatamodel.AuditLog) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collAuditLogs).InsertOne(ctx, entry)
	return err
}
