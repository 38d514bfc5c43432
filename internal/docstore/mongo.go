package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	db           *mongo.Database
	pollInterval time.Duration
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}
	return client, nil
}

// NewMongoStore wraps a database handle. pollInterval drives Subscribe.
func NewMongoStore(db *mongo.Database, pollInterval time.Duration) *MongoStore {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &MongoStore{db: db, pollInterval: pollInterval}
}

func toBSON(f Filter) bson.M {
	m := bson.M{}
	for k, v := range f {
		m[k] = v
	}
	return m
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("docstore: find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("docstore: decode %s: %w", collection, err)
		}
		docs = append(docs, Document(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("docstore: cursor %s: %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, toBSON(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: find one %s: %w", collection, err)
	}
	return Document(doc), nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("docstore: marshal %s: %w", collection, err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return "", fmt.Errorf("docstore: unmarshal %s: %w", collection, err)
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		return "", fmt.Errorf("docstore: insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection string, id string, patch Filter) (bool, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": toBSON(patch)})
	if err != nil {
		return false, fmt.Errorf("docstore: update %s: %w", collection, err)
	}
	return res.MatchedCount > 0, nil
}

// ConditionalUpdate relies on MongoDB's per-document atomicity: the filter
// carries the expected field values, so a concurrent writer that already
// changed them makes this a no-op rather than a lost update.
func (s *MongoStore) ConditionalUpdate(ctx context.Context, collection string, id string, expected Filter, patch Filter) (bool, error) {
	filter := toBSON(expected)
	filter["_id"] = id
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": toBSON(patch)})
	if err != nil {
		return false, fmt.Errorf("docstore: conditional update %s: %w", collection, err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) Subscribe(ctx context.Context, collection string, filter Filter) *Subscription {
	return pollSubscription(ctx, s.pollInterval, func(ctx context.Context) ([]Document, error) {
		return s.Find(ctx, collection, filter)
	})
}
