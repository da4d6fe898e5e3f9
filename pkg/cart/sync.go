package cart

import "context"

// Sync tracks one background reconciliation with the server. Mutation
// methods return it immediately alongside the optimistic local result.
//
// A caller that loses interest (a view unmounts, a request scope ends) can
// simply drop the handle or let Wait return early on its context: the
// reconciliation always runs to completion and settles the shared snapshot
// either way.
type Sync struct {
	done chan struct{}
	err  error
}

func newSync() *Sync {
	return &Sync{done: make(chan struct{})}
}

// Done is closed when the reconciliation has settled.
func (s *Sync) Done() <-chan struct{} { return s.done }

// Err returns the reconciliation outcome. Valid only after Done is closed;
// before that it always returns nil.
func (s *Sync) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the reconciliation settles or ctx ends. An early ctx
// return abandons only this caller's interest in the result; the
// reconciliation itself is never cancelled.
func (s *Sync) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// complete settles the handle. Called exactly once by the engine.
func (s *Sync) complete(err error) {
	s.err = err
	close(s.done)
}
