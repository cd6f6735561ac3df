package seed

import (
	"context"
	"fmt"

	"github.com/example/honeystore/pkg/models"
	"github.com/example/honeystore/pkg/repository"
	"go.uber.org/zap"
)

// DefaultProducts is the starter catalogue inserted into an empty store.
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			Title:       "Wildflower Honey",
			Description: strPtr("Raw, unfiltered wildflower honey with rich floral notes."),
			Price:       12.99,
			Category:    "honey",
			InStock:     true,
			Image:       strPtr("https://images.unsplash.com/photo-1519681393784-d120267933ba"),
			Rating:      4.9,
			StockQty:    120,
		},
		{
			Title:       "Beeswax Candles (Set of 3)",
			Description: strPtr("Hand-poured 100% beeswax candles with natural honey aroma."),
			Price:       18.5,
			Category:    "beeswax",
			InStock:     true,
			Image:       strPtr("https://images.unsplash.com/photo-1505575972945-381d50a4ac7b"),
			Rating:      4.7,
			StockQty:    80,
		},
		{
			Title:       "Propolis Tincture",
			Description: strPtr("High-potency propolis extract for immunity support."),
			Price:       22.0,
			Category:    "propolis",
			InStock:     true,
			Image:       strPtr("https://images.unsplash.com/photo-1517686469429-dc1c37a393f5"),
			Rating:      4.6,
			StockQty:    60,
		},
		{
			Title:       "Bee Pollen Granules",
			Description: strPtr("Nutrient-rich bee pollen harvested sustainably."),
			Price:       15.75,
			Category:    "pollen",
			InStock:     true,
			Image:       strPtr("https://images.unsplash.com/photo-1505577058444-a3dab90d4253"),
			Rating:      4.8,
			StockQty:    95,
		},
	}
}

type Seeder struct {
	store  repository.DocumentStore
	logger *zap.Logger
}

func NewSeeder(store repository.DocumentStore, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Seed inserts DefaultProducts when the product collection is empty and
// returns how many were created. Two concurrent calls may both see an empty
// collection and insert the set twice.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.GetDocuments(ctx, models.ProductCollection, 1)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Debug("Products already exist, skipping seed")
		return 0, nil
	}

	created := 0
	for _, p := range DefaultProducts() {
		id, err := s.store.CreateDocument(ctx, models.ProductCollection, p)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", p.Title, err)
		}
		created++
		s.logger.Info("Seeded product", zap.String("id", id), zap.String("title", p.Title))
	}

	return created, nil
}

func strPtr(s string) *string {
	return &s
}
