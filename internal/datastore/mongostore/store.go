// Package mongostore is the document implementation of the persistence
// facade, built on the official mongo driver. It honors the same
// ordering, idempotence and cascade guarantees as sqlstore; what it
// cannot get from the engine (multi-collection transactions on a
// standalone server) it approximates with children-first ordering, so
// a mid-cascade failure leaves parents intact.
package mongostore

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/frahmantamala/equipment-tracking/internal"
)

const (
	collLocations    = "locations"
	collEquipment    = "equipment"
	collDocuments    = "documents"
	collMaintenance  = "maintenance_records"
	collAuditLogs    = "audit_logs"
	collCustomTypes  = "custom_types"
	collAllowedUsers = "allowed_users"
	collIdentities   = "identities"
)

// cascade deletes walk child documents in batches of this size.
const cascadeChunkSize = 500

const opTimeout = 10 * time.Second

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

func NewStore(client *mongo.Client, database string, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}
}

// EnsureIndexes creates the unique and lookup indexes the relational
// schema gets from migrations. Call once at startup; index creation is
// idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		collAllowedUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collIdentities: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collCustomTypes: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		collEquipment: {
			{Keys: bson.D{{Key: "location_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collDocuments: {
			{Keys: bson.D{{Key: "equipment_id", Value: 1}, {Key: "uploaded_at", Value: -1}}},
		},
		collMaintenance: {
			{Keys: bson.D{{Key: "equipment_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		collAuditLogs: {
			{Keys: bson.D{{Key: "equipment_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collLocations: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// opCtx bounds a single store operation. The repository interfaces are
// context-free to match the service layer, so the bound lives here.
func opCtx() (context.Context, context.CancelFunc) {
	return internal.WithTimeout(context.Background(), opTimeout)
}

// deleteChunked removes all documents in coll matching filter in
// bounded batches.
func (s *Store) deleteChunked(ctx context.Context, coll string, filter bson.M) error {
	c := s.db.Collection(coll)
	for {
		cursor, err := c.Find(ctx, filter,
			options.Find().SetProjection(bson.M{"_id": 1}).SetLimit(cascadeChunkSize))
		if err != nil {
			return err
		}

		var batch []struct {
			ID string `bson:"_id"`
		}
		if err := cursor.All(ctx, &batch); err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		ids := make([]string, 0, len(batch))
		for _, doc := range batch {
			ids = append(ids, doc.ID)
		}
		if _, err := c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return err
		}
		if len(batch) < cascadeChunkSize {
			return nil
		}
	}
}
