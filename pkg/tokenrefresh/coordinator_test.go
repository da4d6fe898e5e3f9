package tokenrefresh_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/tokenrefresh"
)

// fakeGateway is a scriptable apiclient.Caller. It rejects every non-renewal
// call with *apiclient.AuthError until a renewal succeeds, and can hold the
// renewal call open so tests control when waiters are released.
type fakeGateway struct {
	mu           sync.Mutex
	renewed      bool
	renewalFails bool
	authRejects  int   // initial calls rejected with AuthError
	renewals     int   // renewal calls received
	replays      []string // paths served after renewal, in order

	renewalGate chan struct{} // nil = renewal completes immediately
}

func (f *fakeGateway) Do(_ context.Context, req apiclient.Request) (json.RawMessage, error) {
	if req.Path == "/token/refresh" {
		if f.renewalGate != nil {
			<-f.renewalGate
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.renewals++
		if f.renewalFails {
			return nil, &apiclient.APIError{Status: http.StatusUnauthorized}
		}
		f.renewed = true
		return nil, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.renewed {
		f.authRejects++
		return nil, &apiclient.AuthError{Status: http.StatusUnauthorized}
	}
	f.replays = append(f.replays, req.Path)
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeGateway) stats() (rejects, renewals int, replays []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authRejects, f.renewals, append([]string(nil), f.replays...)
}

func TestNewRequiresGateway(t *testing.T) {
	t.Parallel()

	_, err := tokenrefresh.New(nil)
	assert.ErrorIs(t, err, tokenrefresh.ErrNoGateway)
}

func TestDoPassesThroughNonAuthOutcomes(t *testing.T) {
	t.Parallel()

	serverErr := &apiclient.APIError{Status: http.StatusInternalServerError}
	gw := callerFunc(func(_ context.Context, req apiclient.Request) (json.RawMessage, error) {
		switch req.Path {
		case "/ok":
			return json.RawMessage(`{"fine":true}`), nil
		case "/boom":
			return nil, serverErr
		default:
			return nil, &apiclient.TransportError{Err: errors.New("refused")}
		}
	})

	coord, err := tokenrefresh.New(gw)
	require.NoError(t, err)

	raw, err := coord.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fine":true}`, string(raw))

	_, err = coord.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/boom"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	_, err = coord.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/gone"})
	var transportErr *apiclient.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestDoRenewsAndReplaysTransparently(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	coord, err := tokenrefresh.New(gw)
	require.NoError(t, err)

	raw, err := coord.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/cart"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	rejects, renewals, replays := gw.stats()
	assert.Equal(t, 1, rejects)
	assert.Equal(t, 1, renewals)
	assert.Equal(t, []string{"/cart"}, replays)
}

func TestReplayAuthFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	// Renewal "succeeds" but the credential is still rejected on replay.
	var renewals atomic.Int32
	gw := callerFunc(func(_ context.Context, req apiclient.Request) (json.RawMessage, error) {
		if req.Path == "/token/refresh" {
			renewals.Add(1)
			return nil, nil
		}
		return nil, &apiclient.AuthError{Status: http.StatusUnauthorized}
	})

	coord, err := tokenrefresh.New(gw)
	require.NoError(t, err)

	_, err = coord.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/cart"})
	assert.ErrorIs(t, err, tokenrefresh.ErrSessionExpired)
	assert.Equal(t, int32(1), renewals.Load(), "a rejected replay must not trigger another renewal")
}

func TestAbandonedCallerDetachesWithoutBlockingReplay(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{renewalGate: make(chan struct{})}
	coord, err := tokenrefresh.New(gw)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := coord.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/cart"})
		done <- err
	}()

	require.Eventually(t, func() bool {
		rejects, _, _ := gw.stats()
		return rejects == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The caller walks away mid-renewal; its queued call must still replay.
	cancel()
	err = <-done
	assert.ErrorIs(t, err, context.Canceled)

	close(gw.renewalGate)
	require.Eventually(t, func() bool {
		_, _, replays := gw.stats()
		return len(replays) == 1
	}, 2*time.Second, 5*time.Millisecond)
}

// callerFunc adapts a function to apiclient.Caller.
type callerFunc func(ctx context.Context, req apiclient.Request) (json.RawMessage, error)

func (f callerFunc) Do(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	return f(ctx, req)
}
