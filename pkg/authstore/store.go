package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/tokenrefresh"
)

// State describes what the store currently knows about the session.
type State string

const (
	// StateUnknown means the startup identity check has not completed yet.
	StateUnknown State = "unknown"
	// StateAuthenticated means a signed-in user is known.
	StateAuthenticated State = "authenticated"
	// StateAnonymous means there is no usable credential.
	StateAnonymous State = "anonymous"
)

// Session is the identity of the signed-in user.
type Session struct {
	UserID      int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"full_name"`
}

// Change is delivered to subscribers whenever the store's state moves.
type Change struct {
	State   State
	Session Session // zero value unless State is StateAuthenticated
}

// Store caches the current identity. All methods are safe for concurrent use.
type Store struct {
	caller   apiclient.Caller
	userPath string
	bufSize  int
	log      *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	state   State
	session Session
	subs    map[chan Change]struct{}
}

// Option configures Store creation.
type Option func(*Store)

// WithUserPath overrides the identity endpoint. Default is "/auth/user".
func WithUserPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.userPath = path
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber channel buffer. Minimum 1.
func WithSubscriberBuffer(n int) Option {
	return func(s *Store) {
		s.bufSize = max(n, 1)
	}
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store in the Unknown state. The caller is typically a
// tokenrefresh.Coordinator so the identity query itself benefits from
// transparent renewal.
func New(caller apiclient.Caller, opts ...Option) *Store {
	s := &Store{
		caller:   caller,
		userPath: "/auth/user",
		bufSize:  4,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    StateUnknown,
		subs:     make(map[chan Change]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve performs the startup identity check. Concurrent calls while the
// state is Unknown collapse into a single query. Once resolved it returns
// the cached value without touching the network.
//
// An authentication failure (including an expired session) resolves the
// store to Anonymous and is not an error; transport and server failures
// leave the state Unknown and are returned so the caller can retry.
func (s *Store) Resolve(ctx context.Context) (Session, State, error) {
	s.mu.RLock()
	if s.state != StateUnknown {
		sess, st := s.session, s.state
		s.mu.RUnlock()
		return sess, st, nil
	}
	s.mu.RUnlock()

	_, err, _ := s.group.Do("resolve", func() (any, error) {
		raw, err := s.caller.Do(ctx, apiclient.Request{
			Method: http.MethodGet,
			Path:   s.userPath,
		})
		if err != nil {
			var authErr *apiclient.AuthError
			if errors.As(err, &authErr) || errors.Is(err, tokenrefresh.ErrSessionExpired) {
				s.log.DebugContext(ctx, "identity check rejected, resolving anonymous")
				s.transition(StateAnonymous, Session{})
				return nil, nil
			}
			return nil, fmt.Errorf("authstore: identity check: %w", err)
		}

		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("authstore: decode identity: %w", err)
		}
		s.transition(StateAuthenticated, sess)
		return nil, nil
	})
	if err != nil {
		return Session{}, StateUnknown, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.state, nil
}

// Current returns the cached session and state without I/O.
func (s *Store) Current() (Session, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.state
}

// IsAuthenticated reports whether a signed-in user is known.
func (s *Store) IsAuthenticated() bool {
	_, st := s.Current()
	return st == StateAuthenticated
}

// SetAuthenticated records a fresh identity after a credential-issuing
// operation such as sign-in.
func (s *Store) SetAuthenticated(sess Session) {
	s.transition(StateAuthenticated, sess)
}

// Clear resets the store to Anonymous. Wired to sign-out and to the
// coordinator's renewal-failure hook.
func (s *Store) Clear() {
	s.transition(StateAnonymous, Session{})
}

// Subscribe returns a channel of state changes. The subscription ends when
// ctx is cancelled; the channel is closed at that point. Delivery is
// non-blocking: a full buffer drops the change for that subscriber.
func (s *Store) Subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, s.bufSize)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

// transition updates state and fans the change out. No-op when nothing
// actually changes, so repeated Clear calls do not spam subscribers.
func (s *Store) transition(st State, sess Session) {
	s.mu.Lock()
	if s.state == st && s.session == sess {
		s.mu.Unlock()
		return
	}
	s.state = st
	s.session = sess
	change := Change{State: st, Session: sess}
	for ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
	s.mu.Unlock()

	s.log.Debug("session state changed", slog.String("state", string(st)))
}
