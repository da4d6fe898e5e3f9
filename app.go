package shopkit

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/shopkit/pkg/account"
	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/authstore"
	"github.com/dmitrymomot/shopkit/pkg/cart"
	"github.com/dmitrymomot/shopkit/pkg/catalog"
	"github.com/dmitrymomot/shopkit/pkg/config"
	"github.com/dmitrymomot/shopkit/pkg/logger"
	"github.com/dmitrymomot/shopkit/pkg/orders"
	"github.com/dmitrymomot/shopkit/pkg/payment"
	"github.com/dmitrymomot/shopkit/pkg/tokenrefresh"
)

// Config aggregates the configuration of every wired component.
type Config struct {
	API apiclient.Config
	Log logger.Config
}

// LoadConfig reads Config from the environment, including any .env file in
// the working directory.
func LoadConfig() (Config, error) {
	api, err := config.Load[apiclient.Config]()
	if err != nil {
		return Config{}, err
	}
	log, err := config.Load[logger.Config]()
	if err != nil {
		return Config{}, err
	}
	return Config{API: api, Log: log}, nil
}

// App is the fully wired storefront client.
type App struct {
	Client   *apiclient.Client
	Auth     *authstore.Store
	Cart     *cart.Engine
	Account  *account.Service
	Catalog  *catalog.Service
	Orders   *orders.Service
	Payments *payment.Service

	log    *slog.Logger
	cancel context.CancelFunc
}

// Option adjusts App construction.
type Option func(*appConfig)

type appConfig struct {
	log        *slog.Logger
	apiOpts    []apiclient.Option
	cartOpts   []cart.Option
	catalogOpt []catalog.Option
}

// WithLogger sets the logger shared by all components.
func WithLogger(log *slog.Logger) Option {
	return func(c *appConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAPIOptions appends options passed to the underlying HTTP gateway.
func WithAPIOptions(opts ...apiclient.Option) Option {
	return func(c *appConfig) { c.apiOpts = append(c.apiOpts, opts...) }
}

// WithCartOptions appends options passed to the cart engine.
func WithCartOptions(opts ...cart.Option) Option {
	return func(c *appConfig) { c.cartOpts = append(c.cartOpts, opts...) }
}

// WithCatalogOptions appends options passed to the catalog service.
func WithCatalogOptions(opts ...catalog.Option) Option {
	return func(c *appConfig) { c.catalogOpt = append(c.catalogOpt, opts...) }
}

// New builds the standard wiring: a shared gateway, a renewal coordinator in
// front of it, and every service routed through the coordinator so session
// renewal is single-flight across the whole app.
func New(cfg Config, opts ...Option) (*App, error) {
	ac := &appConfig{log: logger.NewFromConfig(cfg.Log)}
	for _, opt := range opts {
		opt(ac)
	}

	gateway, err := apiclient.NewFromConfig(cfg.API,
		append([]apiclient.Option{apiclient.WithLogger(ac.log)}, ac.apiOpts...)...)
	if err != nil {
		return nil, err
	}

	// The expiry hook closes over the store variable so the coordinator can
	// be built first. It never fires before New returns.
	var store *authstore.Store
	coordinator, err := tokenrefresh.New(gateway,
		tokenrefresh.OnSessionExpired(func() { store.Clear() }),
		tokenrefresh.WithLogger(ac.log),
	)
	if err != nil {
		return nil, err
	}

	store = authstore.New(coordinator, authstore.WithLogger(ac.log))

	app := &App{
		Client: gateway,
		Auth:   store,
		Cart: cart.New(coordinator,
			append([]cart.Option{cart.WithLogger(ac.log)}, ac.cartOpts...)...),
		Account: account.NewService(gateway, coordinator, store,
			account.WithLogger(ac.log)),
		Catalog: catalog.NewService(coordinator,
			append([]catalog.Option{catalog.WithLogger(ac.log)}, ac.catalogOpt...)...),
		Orders:   orders.NewService(coordinator),
		Payments: payment.NewService(coordinator),
		log:      ac.log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go app.watchSession(ctx)

	return app, nil
}

// Close stops the background session watcher. It does not cancel in-flight
// requests; callers control those through their own contexts.
func (a *App) Close() {
	a.cancel()
}

// watchSession resets authenticated state when the session ends. The auth
// store broadcasts the anonymous transition whether it came from an explicit
// sign-out or a failed renewal, so the cart reset covers both paths.
func (a *App) watchSession(ctx context.Context) {
	for change := range a.Auth.Subscribe(ctx) {
		if change.State == authstore.StateAnonymous {
			a.log.InfoContext(ctx, "session ended, resetting cart")
			a.Cart.Clear()
		}
	}
}
