package mongostore

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frahmantamala/equipment-tracking/internal"
	documentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/document"
)

func (s *Store) ListDocuments(equipmentID string) ([]*documentDatamodel.Document, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collDocuments).Find(ctx,
		bson.M{"equipment_id": equipmentID},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	docs := make([]*documentDatamodel.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) GetDocument(id string) (*documentDatamodel.Document, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var doc documentDatamodel.Document
	err := s.db.Collection(collDocuments).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) CreateDocument(doc *documentDatamodel.Document) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collDocuments).InsertOne(ctx, doc)
	return err
}

func (s *Store) DeleteDocument(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.db.Collection(collDocuments).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return internal.ErrDocumentNotFound
	}
	return nil
}
