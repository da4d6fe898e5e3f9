package orders_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/orders"
)

type callerFunc func(ctx context.Context, req apiclient.Request) (json.RawMessage, error)

func (f callerFunc) Do(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	return f(ctx, req)
}

func TestList(t *testing.T) {
	t.Parallel()

	svc := orders.NewService(callerFunc(func(_ context.Context, req apiclient.Request) (json.RawMessage, error) {
		assert.Equal(t, "/orders", req.Path)
		return json.RawMessage(`[
			{
				"id": 12,
				"status": "shipped",
				"is_paid": true,
				"total_price": "45.50",
				"created_at": "2025-06-01T10:30:00Z",
				"items": [
					{"product_id": 7, "name": "Shirt", "price": "20.00", "quantity": 2},
					{"product_id": 9, "name": "Mug", "price": "5.50", "quantity": 1}
				]
			}
		]`), nil
	}))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	order := list[0]
	assert.Equal(t, int64(12), order.ID)
	assert.Equal(t, "shipped", order.Status)
	assert.True(t, order.IsPaid)
	assert.Equal(t, "45.50", order.TotalPrice.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "20.00", order.Items[0].Price.String())
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestListPropagatesErrors(t *testing.T) {
	t.Parallel()

	svc := orders.NewService(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		return nil, &apiclient.AuthError{Status: http.StatusUnauthorized}
	}))

	_, err := svc.List(context.Background())
	var authErr *apiclient.AuthError
	assert.ErrorAs(t, err, &authErr)
}
