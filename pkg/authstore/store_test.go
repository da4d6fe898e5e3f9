package authstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/authstore"
	"github.com/dmitrymomot/shopkit/pkg/tokenrefresh"
)

type callerFunc func(ctx context.Context, req apiclient.Request) (json.RawMessage, error)

func (f callerFunc) Do(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	return f(ctx, req)
}

func identityCaller(calls *atomic.Int32) callerFunc {
	return func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(`{"id":42,"email":"jo@example.com","full_name":"Jo Doe"}`), nil
	}
}

func TestResolveAuthenticated(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	store := authstore.New(identityCaller(&calls))

	sess, state, err := store.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, authstore.StateAuthenticated, state)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, "jo@example.com", sess.Email)
	assert.Equal(t, "Jo Doe", sess.DisplayName)
	assert.True(t, store.IsAuthenticated())
}

func TestResolveAnonymousOnAuthFailure(t *testing.T) {
	t.Parallel()

	store := authstore.New(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		return nil, &apiclient.AuthError{Status: http.StatusUnauthorized}
	}))

	_, state, err := store.Resolve(context.Background())
	require.NoError(t, err, "an unauthenticated visitor is not an error")
	assert.Equal(t, authstore.StateAnonymous, state)
	assert.False(t, store.IsAuthenticated())
}

func TestResolveAnonymousOnExpiredSession(t *testing.T) {
	t.Parallel()

	store := authstore.New(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		return nil, tokenrefresh.ErrSessionExpired
	}))

	_, state, err := store.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, authstore.StateAnonymous, state)
}

func TestResolveKeepsUnknownOnTransportFailure(t *testing.T) {
	t.Parallel()

	boom := &apiclient.TransportError{Err: context.DeadlineExceeded}
	store := authstore.New(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		return nil, boom
	}))

	_, state, err := store.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, authstore.StateUnknown, state)

	// The startup check can be retried.
	_, state = store.Current()
	assert.Equal(t, authstore.StateUnknown, state)
}

func TestResolveSingleFlight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gate := make(chan struct{})
	store := authstore.New(callerFunc(func(_ context.Context, _ apiclient.Request) (json.RawMessage, error) {
		calls.Add(1)
		<-gate
		return json.RawMessage(`{"id":1,"email":"a@b.c","full_name":"A"}`), nil
	}))

	const resolvers = 5
	var wg sync.WaitGroup
	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.Resolve(context.Background())
		}()
	}

	// All resolvers must be sharing the one in-flight query before it is
	// allowed to complete.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 2*time.Millisecond)
	time.Sleep(50 * time.Millisecond) // let the remaining resolvers join the flight
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent resolves must share one identity query")

	// Resolved state is served from cache.
	_, state, err := store.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, authstore.StateAuthenticated, state)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSetAuthenticatedAndClear(t *testing.T) {
	t.Parallel()

	store := authstore.New(nil)

	store.SetAuthenticated(authstore.Session{UserID: 7, Email: "x@y.z", DisplayName: "X"})
	sess, state := store.Current()
	assert.Equal(t, authstore.StateAuthenticated, state)
	assert.Equal(t, int64(7), sess.UserID)

	store.Clear()
	sess, state = store.Current()
	assert.Equal(t, authstore.StateAnonymous, state)
	assert.Zero(t, sess)
}

func TestSubscribeDeliversChanges(t *testing.T) {
	t.Parallel()

	store := authstore.New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := store.Subscribe(ctx)

	store.SetAuthenticated(authstore.Session{UserID: 9, Email: "s@t.u", DisplayName: "S"})
	store.Clear()

	change := <-changes
	assert.Equal(t, authstore.StateAuthenticated, change.State)
	assert.Equal(t, int64(9), change.Session.UserID)

	change = <-changes
	assert.Equal(t, authstore.StateAnonymous, change.State)
	assert.Zero(t, change.Session)
}

func TestSubscribeSkipsNoOpTransitions(t *testing.T) {
	t.Parallel()

	store := authstore.New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := store.Subscribe(ctx)

	store.Clear()
	store.Clear() // second reset changes nothing

	<-changes
	select {
	case c, ok := <-changes:
		if ok {
			t.Fatalf("unexpected duplicate change: %+v", c)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeEndsWithContext(t *testing.T) {
	t.Parallel()

	store := authstore.New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	changes := store.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 2*time.Millisecond)

	// Changes after unsubscribe must not panic or block.
	store.SetAuthenticated(authstore.Session{UserID: 1})
}
