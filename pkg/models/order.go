package models

import (
	"math"
)

type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Title     string  `json:"title" bson:"title"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Quantity  int64   `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID              string      `json:"id,omitempty" bson:"-"`
	CustomerName    string      `json:"customer_name" bson:"customer_name"`
	CustomerEmail   string      `json:"customer_email" bson:"customer_email"`
	ShippingAddress string      `json:"shipping_address" bson:"shipping_address"`
	Items           []OrderItem `json:"items" bson:"items"`
	Notes           *string     `json:"notes" bson:"notes"`
	Total           float64     `json:"total" bson:"total"`
}

type orderItemInput struct {
	ProductID *string  `json:"product_id" validate:"required"`
	Title     *string  `json:"title" validate:"required"`
	UnitPrice *float64 `json:"unit_price" validate:"required,gte=0"`
	Quantity  *int64   `json:"quantity" validate:"required,gte=1"`
}

// orderInput has no total: the client never supplies it.
type orderInput struct {
	CustomerName    *string          `json:"customer_name" validate:"required"`
	CustomerEmail   *string          `json:"customer_email" validate:"required,email"`
	ShippingAddress *string          `json:"shipping_address" validate:"required"`
	Items           []orderItemInput `json:"items" validate:"required,dive"`
	Notes           *string          `json:"notes"`
}

// ParseOrder validates a JSON order payload and computes its total. An
// empty items array is accepted.
func ParseOrder(payload []byte) (*Order, error) {
	var in orderInput
	if err := decodeAndValidate(payload, &in); err != nil {
		return nil, err
	}

	items := make([]OrderItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = OrderItem{
			ProductID: *it.ProductID,
			Title:     *it.Title,
			UnitPrice: *it.UnitPrice,
			Quantity:  *it.Quantity,
		}
	}

	return &Order{
		CustomerName:    *in.CustomerName,
		CustomerEmail:   *in.CustomerEmail,
		ShippingAddress: *in.ShippingAddress,
		Items:           items,
		Notes:           in.Notes,
		Total:           OrderTotal(items),
	}, nil
}

// OrderTotal sums unit_price × quantity over items, rounded to cents.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return math.Round(total*100) / 100
}
