package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/honeystore/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore is the persistence surface the HTTP layer and the seed
// utility depend on.
type DocumentStore interface {
	CreateDocument(ctx context.Context, collection string, record interface{}) (string, error)
	GetDocuments(ctx context.Context, collection string, limit int64) ([]bson.M, error)
	ListCollectionNames(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	DatabaseName() string
}

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	now      func() time.Time
}

// NewMongoRepository constructs the client without waiting for the server;
// reachability is checked separately with Ping.
func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	if !cfg.StoreConfigured() {
		return nil, ErrUnavailable
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &StorageError{Op: "connect", Err: err}
	}

	return newMongoRepository(client.Database(cfg.Database)), nil
}

func newMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		client:   db.Client(),
		database: db,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MongoRepository) DatabaseName() string {
	return m.database.Name()
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// CreateDocument inserts record into collection with a freshly assigned
// _id and created_at/updated_at timestamps, returning the id as hex.
func (m *MongoRepository) CreateDocument(ctx context.Context, collection string, record interface{}) (string, error) {
	fields, err := toDocument(record)
	if err != nil {
		return "", &StorageError{Op: "insert", Collection: collection, Err: err}
	}

	id := primitive.NewObjectID()
	now := m.now()

	doc := make(bson.D, 0, len(fields)+3)
	doc = append(doc, bson.E{Key: "_id", Value: id})
	for _, f := range fields {
		switch f.Key {
		case "_id", "created_at", "updated_at":
			continue
		}
		doc = append(doc, f)
	}
	doc = append(doc,
		bson.E{Key: "created_at", Value: now},
		bson.E{Key: "updated_at", Value: now},
	)

	if _, err := m.database.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", &StorageError{Op: "insert", Collection: collection, Err: err}
	}

	return id.Hex(), nil
}

// GetDocuments returns documents in natural order, at most limit of them
// when limit > 0. ObjectID _id values are rendered as hex strings.
func (m *MongoRepository) GetDocuments(ctx context.Context, collection string, limit int64) ([]bson.M, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := m.database.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, &StorageError{Op: "find", Collection: collection, Err: err}
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, &StorageError{Op: "find", Collection: collection, Err: err}
	}

	for _, d := range docs {
		if oid, ok := d["_id"].(primitive.ObjectID); ok {
			d["_id"] = oid.Hex()
		}
	}

	return docs, nil
}

func (m *MongoRepository) ListCollectionNames(ctx context.Context) ([]string, error) {
	names, err := m.database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, &StorageError{Op: "list collections", Err: err}
	}
	return names, nil
}

func toDocument(record interface{}) (bson.D, error) {
	data, err := bson.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return doc, nil
}
