package models

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names are the lowercased schema type names.
const (
	ProductCollection = "product"
	OrderCollection   = "order"
	UserCollection    = "user"
)

// Defaults applied to optional product fields.
const (
	DefaultCategory = "honey"
	DefaultRating   = 4.8
	DefaultStockQty = 50
)

type Product struct {
	ID          string  `json:"id,omitempty" bson:"-"`
	Title       string  `json:"title" bson:"title"`
	Description *string `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Category    string  `json:"category" bson:"category"`
	InStock     bool    `json:"in_stock" bson:"in_stock"`
	Image       *string `json:"image" bson:"image"`
	Rating      float64 `json:"rating" bson:"rating"`
	StockQty    int64   `json:"stock_qty" bson:"stock_qty"`
}

type productInput struct {
	Title       *string  `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    *string  `json:"category" validate:"required"`
	InStock     *bool    `json:"in_stock"`
	Image       *string  `json:"image"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	StockQty    *int64   `json:"stock_qty" validate:"omitempty,gte=0"`
}

// ParseProduct validates a JSON product payload and applies defaults for
// the optional fields.
func ParseProduct(payload []byte) (*Product, error) {
	var in productInput
	if err := decodeAndValidate(payload, &in); err != nil {
		return nil, err
	}

	return &Product{
		Title:       *in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Category:    *in.Category,
		InStock:     boolOr(in.InStock, true),
		Image:       in.Image,
		Rating:      floatOr(in.Rating, DefaultRating),
		StockQty:    intOr(in.StockQty, DefaultStockQty),
	}, nil
}

// storedProduct is the partial view of a product document. Every field is
// optional so documents written by older releases or by hand still list.
type storedProduct struct {
	Title       *string  `bson:"title"`
	Description *string  `bson:"description"`
	Price       *float64 `bson:"price"`
	Category    *string  `bson:"category"`
	InStock     *bool    `bson:"in_stock"`
	Image       *string  `bson:"image"`
	Rating      *float64 `bson:"rating"`
	StockQty    *int64   `bson:"stock_qty"`
}

// DecodeStoredProduct converts a raw product document into a Product,
// filling missing fields from the default table. Numeric fields stored as
// a different BSON number type or as numeric strings are converted, doubles
// truncated to integers.
func DecodeStoredProduct(doc bson.M) (Product, error) {
	doc, err := normalizeNumericStrings(doc)
	if err != nil {
		return Product{}, fmt.Errorf("decode product document: %w", err)
	}

	data, err := bson.Marshal(doc)
	if err != nil {
		return Product{}, fmt.Errorf("encode product document: %w", err)
	}

	var sp storedProduct
	dc := bsoncodec.DecodeContext{Registry: bson.DefaultRegistry, Truncate: true}
	if err := bson.UnmarshalWithContext(dc, data, &sp); err != nil {
		return Product{}, fmt.Errorf("decode product document: %w", err)
	}

	return Product{
		ID:          documentID(doc["_id"]),
		Title:       stringOr(sp.Title, ""),
		Description: sp.Description,
		Price:       floatOr(sp.Price, 0),
		Category:    stringOr(sp.Category, DefaultCategory),
		InStock:     boolOr(sp.InStock, true),
		Image:       sp.Image,
		Rating:      floatOr(sp.Rating, DefaultRating),
		StockQty:    intOr(sp.StockQty, DefaultStockQty),
	}, nil
}

var numericProductFields = []string{"price", "rating", "stock_qty"}

// normalizeNumericStrings returns a copy of doc with numeric fields stored
// as strings such as "12.99" parsed into doubles.
func normalizeNumericStrings(doc bson.M) (bson.M, error) {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	for _, key := range numericProductFields {
		str, ok := out[key].(string)
		if !ok {
			continue
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(str))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = f
	}
	return out, nil
}

func documentID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
