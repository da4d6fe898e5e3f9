package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/validator"
)

const initiatePath = "/payment/initiate"

var (
	// ErrEmptyCart indicates checkout was attempted with nothing in the cart.
	ErrEmptyCart = errors.New("payment: cart is empty")

	// ErrNoRedirect indicates the provider handoff came back without a
	// redirect URL to send the user to.
	ErrNoRedirect = errors.New("payment: no redirect URL in response")
)

// Address is the delivery address collected at checkout.
type Address struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	SubCity  string `json:"sub_city"`
	Street   string `json:"street"`
	HouseNo  string `json:"house_no"`
}

// Service starts checkout. Safe for concurrent use.
type Service struct {
	caller apiclient.Caller
}

// NewService creates a checkout initiator over the given caller.
func NewService(caller apiclient.Caller) *Service {
	return &Service{caller: caller}
}

// Validate checks the address locally the way the server will.
func (a Address) Validate() error {
	return validator.Apply(
		validator.Required("full_name", a.FullName),
		validator.Phone("phone", a.Phone),
		validator.Required("city", a.City),
	)
}

// Initiate submits the delivery address and returns the provider redirect
// URL the user must be sent to. The address is validated locally first; the
// server rejects an empty cart with a 400, surfaced as ErrEmptyCart.
func (s *Service) Initiate(ctx context.Context, addr Address) (string, error) {
	if err := addr.Validate(); err != nil {
		return "", err
	}

	raw, err := s.caller.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   initiatePath,
		Body:   addr,
	})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %w", ErrEmptyCart, err)
		}
		return "", fmt.Errorf("payment: initiate checkout: %w", err)
	}

	var resp struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("payment: decode initiate response: %w", err)
	}
	if resp.RedirectURL == "" {
		return "", ErrNoRedirect
	}
	return resp.RedirectURL, nil
}
