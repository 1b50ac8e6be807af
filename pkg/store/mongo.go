package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default names for the MongoDB backend.
const (
	DefaultDatabase   = "plateforge"
	DefaultCollection = "records"
)

// MongoStore writes records to a MongoDB collection. Used when several
// machines contribute to one dataset and the manifest has to be
// queryable while the run is still going.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the given URI. Empty database or collection
// names fall back to the defaults. The connection is verified before
// the store is returned.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Append inserts one record.
func (s *MongoStore) Append(ctx context.Context, rec *Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
