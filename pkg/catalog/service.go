package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/money"
)

const (
	productsPath = "/products"
	homePath     = "/home"
)

// ErrProductNotFound indicates the slug does not resolve to a product.
var ErrProductNotFound = errors.New("catalog: product not found")

// Product is one catalog entry. List endpoints fill only the summary
// fields; detail lookups add slug and description.
type Product struct {
	ID          int64        `json:"id"`
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Price       money.Amount `json:"price"`
	Image       string       `json:"image"`
	Description string       `json:"description"`
}

// Category groups products on the home page and category listings.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

// Banner is a home-page carousel entry.
type Banner struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// HomeContent is everything the home page renders in one payload.
type HomeContent struct {
	Banners     []Banner   `json:"banners"`
	Featured    []Product  `json:"featured"`
	NewArrivals []Product  `json:"new_arrivals"`
	BestSellers []Product  `json:"best_sellers"`
	Categories  []Category `json:"categories"`
}

// Service reads the product catalog. Safe for concurrent use.
type Service struct {
	caller apiclient.Caller
	cache  *detailCache
	log    *slog.Logger
}

// Option configures Service creation.
type Option func(*Service)

// WithCache sizes the product detail cache. Defaults: 128 entries, 5m TTL.
func WithCache(capacity int, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = newDetailCache(capacity, ttl)
	}
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a catalog reader over the given caller.
func NewService(caller apiclient.Caller, opts ...Option) *Service {
	s := &Service{
		caller: caller,
		cache:  newDetailCache(128, 5*time.Minute),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns products matching the query. An empty query returns an
// empty slice without touching the network.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	if query == "" {
		return nil, nil
	}
	raw, err := s.caller.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   productsPath + "?search=" + url.QueryEscape(query),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: search products: %w", err)
	}
	return decodeProductList(raw)
}

// BySlug returns one product's detail, served from cache when fresh.
func (s *Service) BySlug(ctx context.Context, slug string) (Product, error) {
	if p, ok := s.cache.get(slug); ok {
		return p, nil
	}

	raw, err := s.caller.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   productsPath + "/" + url.PathEscape(slug),
	})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, slug)
		}
		return Product{}, fmt.Errorf("catalog: product detail: %w", err)
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, fmt.Errorf("catalog: decode product: %w", err)
	}
	s.cache.put(slug, p)
	return p, nil
}

// ByCategory lists the products in one category.
func (s *Service) ByCategory(ctx context.Context, slug string) ([]Product, error) {
	raw, err := s.caller.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   productsPath + "/category/" + url.PathEscape(slug),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: products by category: %w", err)
	}
	return decodeProductList(raw)
}

// Home returns the home-page collections.
func (s *Service) Home(ctx context.Context) (HomeContent, error) {
	raw, err := s.caller.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   homePath,
	})
	if err != nil {
		return HomeContent{}, fmt.Errorf("catalog: home content: %w", err)
	}
	var content HomeContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return HomeContent{}, fmt.Errorf("catalog: decode home content: %w", err)
	}
	return content, nil
}

// FlushCache drops all cached product details.
func (s *Service) FlushCache() {
	s.cache.clear()
}

// decodeProductList accepts both list shapes the API emits: a paginated
// {"results": [...]} wrapper and a bare array.
func decodeProductList(raw json.RawMessage) ([]Product, error) {
	var wrapped struct {
		Results []Product `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}
	var list []Product
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("catalog: decode product list: %w", err)
	}
	return list, nil
}
