package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/example/honeystore/pkg/models"
	"github.com/example/honeystore/pkg/repository"
	"github.com/example/honeystore/pkg/repository/repositorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedIsIdempotent(t *testing.T) {
	store := repositorytest.NewStore("test")
	seeder := NewSeeder(store, zap.NewNop())

	created, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, created)
	assert.Equal(t, 4, store.Count(models.ProductCollection))

	created, err = seeder.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 4, store.Count(models.ProductCollection))
}

func TestSeedStoresCatalogue(t *testing.T) {
	store := repositorytest.NewStore("test")
	_, err := NewSeeder(store, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)

	docs, err := store.GetDocuments(context.Background(), models.ProductCollection, 0)
	require.NoError(t, err)

	titles := make([]string, len(docs))
	for i, d := range docs {
		p, err := models.DecodeStoredProduct(d)
		require.NoError(t, err)
		titles[i] = p.Title
	}
	assert.Equal(t, []string{
		"Wildflower Honey",
		"Beeswax Candles (Set of 3)",
		"Propolis Tincture",
		"Bee Pollen Granules",
	}, titles)

	first, err := models.DecodeStoredProduct(docs[0])
	require.NoError(t, err)
	assert.Equal(t, 12.99, first.Price)
	assert.Equal(t, 4.9, first.Rating)
	assert.EqualValues(t, 120, first.StockQty)
}

func TestSeedSkipsWhenAnyProductExists(t *testing.T) {
	store := repositorytest.NewStore("test")
	_, err := store.CreateDocument(context.Background(), models.ProductCollection, models.Product{Title: "Comb Honey", Category: "honey"})
	require.NoError(t, err)

	created, err := NewSeeder(store, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 1, store.Count(models.ProductCollection))
}

func TestSeedPropagatesStorageErrors(t *testing.T) {
	store := repositorytest.NewStore("test")
	store.Fail["insert"] = errors.New("write rejected")

	created, err := NewSeeder(store, zap.NewNop()).Seed(context.Background())

	var serr *repository.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Zero(t, created)
}
