package mongostore

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frahmantamala/equipment-tracking/internal"
	userDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/user"
)

func (s *Store) GetAllowedUserByEmail(email string) (*userDatamodel.AllowedUser, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var row userDatamodel.AllowedUser
	err := s.db.Collection(collAllowedUsers).FindOne(ctx, bson.M{"email": email}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) ListAllowedUsers() ([]*userDatamodel.AllowedUser, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := s.db.Collection(collAllowedUsers).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	rows := make([]*userDatamodel.AllowedUser, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CreateAllowedUser(u *userDatamodel.AllowedUser) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collAllowedUsers).InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (s *Store) UpdateAllowedUser(id string, fields map[string]interface{}) error {
	ctx, cancel := opCtx()
	defer cancel()

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.db.Collection(collAllowedUsers).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return internal.ErrAllowedUserNotFound
	}
	return nil
}

func (s *Store) DeleteAllowedUser(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.db.Collection(collAllowedUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return internal.ErrAllowedUserNotFound
	}
	return nil
}

func (s *Store) GetIdentityByEmail(email string) (*userDatamodel.Identity, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var row userDatamodel.Identity
	err := s.db.Collection(collIdentities).FindOne(ctx, bson.M{"email": email}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) CreateIdentity(identity *userDatamodel.Identity) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := s.db.Collection(collIdentities).InsertOne(ctx, identity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.ErrDuplicateUser
		}
		return err
	}
	return nil
}
