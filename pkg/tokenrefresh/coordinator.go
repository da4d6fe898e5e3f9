package tokenrefresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
)

// state names the coordinator's position in the renewal lifecycle.
type state string

const (
	stateIdle       state = "idle"
	stateRefreshing state = "refreshing"
)

// result carries a completed call back to its original caller.
type result struct {
	raw json.RawMessage
	err error
}

// waiter is one queued call awaiting the in-flight renewal.
type waiter struct {
	req  apiclient.Request
	done chan result // buffered; abandoned waiters never block replay
}

// Coordinator wraps a gateway and collapses concurrent authentication
// failures into one credential renewal. It satisfies apiclient.Caller, so
// services compose over it the same way they would over the bare gateway.
type Coordinator struct {
	gateway          apiclient.Caller
	refreshPath      string
	onSessionExpired func()
	log              *slog.Logger

	mu      sync.Mutex
	state   state
	waiters []*waiter
}

// New creates a coordinator over the given gateway.
func New(gateway apiclient.Caller, opts ...Option) (*Coordinator, error) {
	if gateway == nil {
		return nil, ErrNoGateway
	}

	c := &Coordinator{
		gateway:     gateway,
		refreshPath: "/token/refresh",
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:       stateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do performs one call through the gateway. Authentication failures trigger
// the single-flight renewal cycle; every other outcome passes through
// unchanged.
func (c *Coordinator) Do(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	c.mu.Lock()
	if c.state == stateRefreshing {
		// A renewal is already in flight: join the queue instead of issuing
		// a call that would fail with the same stale credential.
		w := c.enqueueLocked(req)
		c.mu.Unlock()
		return c.await(ctx, w)
	}
	c.mu.Unlock()

	raw, err := c.gateway.Do(ctx, req)
	var authErr *apiclient.AuthError
	if !errors.As(err, &authErr) {
		return raw, err
	}

	return c.handleAuthFailure(ctx, req)
}

// handleAuthFailure queues the failed call and, if this caller is the first
// to observe the expired credential, runs the renewal on its behalf.
func (c *Coordinator) handleAuthFailure(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	c.mu.Lock()
	w := c.enqueueLocked(req)
	if c.state == stateRefreshing {
		// Another caller raced into the failure first and owns the renewal.
		c.mu.Unlock()
		return c.await(ctx, w)
	}
	c.state = stateRefreshing
	c.mu.Unlock()

	go c.refreshAndReplay()

	return c.await(ctx, w)
}

func (c *Coordinator) enqueueLocked(req apiclient.Request) *waiter {
	w := &waiter{req: req, done: make(chan result, 1)}
	c.waiters = append(c.waiters, w)
	return w
}

// await blocks until the waiter's call completes or the caller abandons
// interest. Abandonment only detaches the caller; the queued call still
// replays and shared state settles normally.
func (c *Coordinator) await(ctx context.Context, w *waiter) (json.RawMessage, error) {
	select {
	case res := <-w.done:
		return res.raw, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("tokenrefresh: abandoned while awaiting renewal: %w", ctx.Err())
	}
}

// refreshAndReplay issues the one renewal call and settles every waiter.
// Runs in its own goroutine, detached from any caller's context: renewal
// outcome is shared state, so no single caller may cancel it. The gateway's
// own timeout bounds each call.
func (c *Coordinator) refreshAndReplay() {
	ctx := context.Background()

	_, err := c.gateway.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   c.refreshPath,
	})

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.state = stateIdle
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("credential renewal failed, rejecting queued calls",
			slog.Int("waiters", len(waiters)),
			slog.Any("error", err),
		)
		for _, w := range waiters {
			w.done <- result{err: fmt.Errorf("%w: renewal failed: %w", ErrSessionExpired, err)}
		}
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return
	}

	c.log.Debug("credential renewed, replaying queued calls", slog.Int("waiters", len(waiters)))

	// Replay strictly in arrival order. Each call replays exactly once; a
	// second rejection means the renewed credential is unusable too, and
	// retrying would loop forever.
	for _, w := range waiters {
		raw, err := c.gateway.Do(ctx, w.req)
		var authErr *apiclient.AuthError
		if errors.As(err, &authErr) {
			err = fmt.Errorf("%w: call rejected after renewal: %w", ErrSessionExpired, err)
		}
		w.done <- result{raw: raw, err: err}
	}
}
