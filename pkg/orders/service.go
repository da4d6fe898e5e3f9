package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/money"
)

const listPath = "/orders"

// Item is one product line inside a placed order. Price is the unit price
// at purchase time, not the product's current price.
type Item struct {
	ProductID int64        `json:"product_id"`
	Name      string       `json:"name"`
	Price     money.Amount `json:"price"`
	Quantity  int          `json:"quantity"`
}

// Order is one placed order with its lines and fulfillment status.
type Order struct {
	ID         int64        `json:"id"`
	Status     string       `json:"status"`
	IsPaid     bool         `json:"is_paid"`
	TotalPrice money.Amount `json:"total_price"`
	CreatedAt  time.Time    `json:"created_at"`
	Items      []Item       `json:"items"`
}

// Service reads order history. Safe for concurrent use.
type Service struct {
	caller apiclient.Caller
}

// NewService creates an order-history reader over the given caller.
func NewService(caller apiclient.Caller) *Service {
	return &Service{caller: caller}
}

// List returns the user's orders, newest first as the server sends them.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	raw, err := s.caller.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   listPath,
	})
	if err != nil {
		return nil, fmt.Errorf("orders: list orders: %w", err)
	}

	var list []Order
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("orders: decode order list: %w", err)
	}
	return list, nil
}
