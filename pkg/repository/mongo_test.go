package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/honeystore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type jar struct {
	Title string  `bson:"title"`
	Price float64 `bson:"price"`
}

func TestNewMongoRepositoryRequiresSettings(t *testing.T) {
	_, err := NewMongoRepository(&config.MongoDBConfig{URI: "mongodb://localhost:27017"})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewMongoRepository(&config.MongoDBConfig{Database: "store"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewMongoRepositoryRejectsBadURI(t *testing.T) {
	_, err := NewMongoRepository(&config.MongoDBConfig{URI: "not-a-uri", Database: "store"})

	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "connect", serr.Op)
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create document stamps id and timestamps", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return fixed }

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.CreateDocument(context.Background(), "product", jar{Title: "Acacia", Price: 11})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)

		values, err := started.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 1)

		doc := values[0].Document()
		assert.Equal(mt, id, doc.Lookup("_id").ObjectID().Hex())
		assert.Equal(mt, "Acacia", doc.Lookup("title").StringValue())
		assert.Equal(mt, fixed.UnixMilli(), doc.Lookup("created_at").Time().UnixMilli())
		assert.Equal(mt, fixed.UnixMilli(), doc.Lookup("updated_at").Time().UnixMilli())
	})

	mt.Run("create document surfaces write errors", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.CreateDocument(context.Background(), "order", jar{Title: "x"})

		var serr *StorageError
		require.True(mt, errors.As(err, &serr))
		assert.Equal(mt, "insert", serr.Op)
		assert.Equal(mt, "order", serr.Collection)
	})

	mt.Run("get documents renders ids as hex", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		ns := mt.DB.Name() + ".product"

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "Wildflower Honey"}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "Bee Pollen Granules"}},
		))

		docs, err := repo.GetDocuments(context.Background(), "product", 0)
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, first.Hex(), docs[0]["_id"])
		assert.Equal(mt, "Bee Pollen Granules", docs[1]["title"])

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		_, hasLimit := started.Command.Lookup("limit").Int64OK()
		assert.False(mt, hasLimit)
	})

	mt.Run("get documents applies limit", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".product", mtest.FirstBatch))

		docs, err := repo.GetDocuments(context.Background(), "product", 1)
		require.NoError(mt, err)
		assert.NotNil(mt, docs)
		assert.Empty(mt, docs)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		limit, ok := started.Command.Lookup("limit").Int64OK()
		require.True(mt, ok)
		assert.EqualValues(mt, 1, limit)
	})

	mt.Run("get documents surfaces command errors", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		_, err := repo.GetDocuments(context.Background(), "product", 0)

		var serr *StorageError
		require.True(mt, errors.As(err, &serr))
		assert.Equal(mt, "find", serr.Op)
	})

	mt.Run("list collection names", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "product"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "order"}, {Key: "type", Value: "collection"}},
		))

		names, err := repo.ListCollectionNames(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"product", "order"}, names)
	})

	mt.Run("ping", func(mt *mtest.T) {
		repo := newMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.Ping(context.Background()))
		assert.Equal(mt, mt.DB.Name(), repo.DatabaseName())
	})
}

func TestStorageErrorUnwraps(t *testing.T) {
	err := &StorageError{Op: "find", Collection: "product", Err: ErrUnavailable}

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "find product: database not available", err.Error())
	assert.Equal(t, "ping: database not available", (&StorageError{Op: "ping", Err: ErrUnavailable}).Error())
}
