package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

type recordDocument struct {
	ID       string    `bson:"_id"`
	Provider string    `bson:"provider"`
	OAuthID  string    `bson:"oauth_id"`
	Name     string    `bson:"name"`
	Created  time.Time `bson:"created"`
}

func (d recordDocument) record() *Record {
	return &Record{
		ID:       d.ID,
		Provider: d.Provider,
		OAuthID:  d.OAuthID,
		Name:     d.Name,
		Created:  d.Created,
	}
}

type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a store over the users collection of db and
// ensures the unique (provider, oauth_id) index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(usersCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider", Value: 1},
			{Key: "oauth_id", Value: 1},
		},
		Options: options.Index().
			SetName("users_provider_oauth_id_unique").
			SetUnique(true),
	})
	if err != nil {
		return nil, storageErr("ensure index", err)
	}

	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) FindByOAuthID(ctx context.Context, provider, oauthID string) (*Record, error) {
	return s.findOne(ctx, "find by oauth id", bson.D{
		{Key: "provider", Value: provider},
		{Key: "oauth_id", Value: oauthID},
	})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*Record, error) {
	return s.findOne(ctx, "find by id", bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) Create(ctx context.Context, r Record) (*Record, error) {
	doc := recordDocument{
		ID:       uuid.NewString(),
		Provider: r.Provider,
		OAuthID:  r.OAuthID,
		Name:     r.Name,
		Created:  r.Created.UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, storageErr("create", err)
	}

	return doc.record(), nil
}

func (s *MongoStore) findOne(ctx context.Context, op string, filter bson.D) (*Record, error) {
	var doc recordDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(op, err)
	}

	return doc.record(), nil
}
