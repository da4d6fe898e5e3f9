package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/payment"
	"github.com/dmitrymomot/shopkit/pkg/validator"
)

type callerFunc func(ctx context.Context, req apiclient.Request) (json.RawMessage, error)

func (f callerFunc) Do(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	return f(ctx, req)
}

func validAddress() payment.Address {
	return payment.Address{
		FullName: "Jo Doe",
		Phone:    "+251911123456",
		City:     "Addis",
		SubCity:  "Bole",
		Street:   "Main",
		HouseNo:  "12",
	}
}

func TestInitiateReturnsRedirect(t *testing.T) {
	t.Parallel()

	svc := payment.NewService(callerFunc(func(_ context.Context, req apiclient.Request) (json.RawMessage, error) {
		require.Equal(t, "/payment/initiate", req.Path)
		addr, ok := req.Body.(payment.Address)
		require.True(t, ok)
		assert.Equal(t, "Jo Doe", addr.FullName)
		return json.RawMessage(`{"redirect_url":"https://pay.example.com/session/abc"}`), nil
	}))

	url, err := svc.Initiate(context.Background(), validAddress())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", url)
}

func TestInitiateEmptyCart(t *testing.T) {
	t.Parallel()

	svc := payment.NewService(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		return nil, &apiclient.APIError{Status: http.StatusBadRequest, Body: []byte(`{"error":"Cannot initiate payment for an empty cart."}`)}
	}))

	_, err := svc.Initiate(context.Background(), validAddress())
	assert.ErrorIs(t, err, payment.ErrEmptyCart)
}

func TestInitiateInvalidAddress(t *testing.T) {
	t.Parallel()

	svc := payment.NewService(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		t.Fatal("invalid address must not reach the server")
		return nil, nil
	}))

	_, err := svc.Initiate(context.Background(), payment.Address{FullName: "Jo Doe"})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("phone"))
	assert.True(t, errs.Has("city"))
}

func TestInitiateMissingRedirect(t *testing.T) {
	t.Parallel()

	svc := payment.NewService(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		return json.RawMessage(`{"message":"accepted"}`), nil
	}))

	_, err := svc.Initiate(context.Background(), validAddress())
	assert.ErrorIs(t, err, payment.ErrNoRedirect)
}
