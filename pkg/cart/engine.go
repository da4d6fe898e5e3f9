package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/money"
)

const (
	cartPath     = "/cart"
	quantityPath = "/cart/quantity"
	addPath      = "/cart/add"
	removePath   = "/cart/remove"
)

// ProductMeta carries the display fields needed to create a new line
// locally before the server has confirmed it.
type ProductMeta struct {
	Name      string
	UnitPrice money.Amount
	ImageRef  string
}

// pendingMutation is the prior state captured before an optimistic change,
// held only until its remote call settles. Never leaves the engine.
type pendingMutation struct {
	productID int64
	prior     *Line // nil when the line did not exist before the change
}

// mutationPayload is the wire body shared by the cart mutation endpoints.
type mutationPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity,omitempty"`
}

// Engine owns the local cart snapshot and keeps it reconciled with the
// server. All methods are safe for concurrent use.
type Engine struct {
	caller  apiclient.Caller
	bufSize int
	log     *slog.Logger

	mu    sync.Mutex
	lines []Line
	// tails chains background mutations per product: each new mutation waits
	// for the previous one's channel, so remote calls for one product run
	// strictly in local issue order while products stay independent.
	tails map[int64]chan struct{}
	subs  map[chan Snapshot]struct{}
}

// New creates an empty Engine. The caller is typically a
// tokenrefresh.Coordinator so cart calls survive credential expiry.
func New(caller apiclient.Caller, opts ...Option) *Engine {
	e := &Engine{
		caller:  caller,
		bufSize: 4,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tails:   make(map[int64]chan struct{}),
		subs:    make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadAuthoritative fetches the server's cart and replaces the whole local
// snapshot with it. This is the one operation with no optimistic phase: the
// response is already the truth. On error the local snapshot is untouched.
func (e *Engine) LoadAuthoritative(ctx context.Context) (Snapshot, error) {
	raw, err := e.caller.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   cartPath,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("cart: load authoritative cart: %w", err)
	}

	var wire wireCart
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("cart: decode cart payload: %w", err)
	}

	e.mu.Lock()
	e.lines = wire.lines()
	snap := e.snapshotLocked()
	e.notifyLocked(snap)
	e.mu.Unlock()

	return snap, nil
}

// ApplyDelta adjusts a line's quantity by delta, creating the line when it
// is absent and delta is positive. The resulting quantity is clamped to a
// minimum of 1; a negative delta never removes a line. The updated line is
// returned immediately; the remote call runs in the background and the Sync
// handle reports its outcome. On remote failure the line reverts to its
// captured prior state, except when a failed creation already has a later
// mutation queued behind it: then the engine refetches the authoritative
// cart instead of guessing which of the two the server saw.
func (e *Engine) ApplyDelta(ctx context.Context, productID int64, delta int, meta ProductMeta) (Line, *Sync, error) {
	if delta == 0 {
		return Line{}, nil, fmt.Errorf("%w: delta is zero", ErrInvalidDelta)
	}

	e.mu.Lock()

	idx := e.indexLocked(productID)
	var (
		line    Line
		pending pendingMutation
		created bool
	)
	switch {
	case idx < 0 && delta < 0:
		e.mu.Unlock()
		return Line{}, nil, fmt.Errorf("%w: product %d", ErrLineNotFound, productID)
	case idx < 0:
		line = Line{
			ProductID: productID,
			Name:      meta.Name,
			UnitPrice: meta.UnitPrice,
			Quantity:  delta,
			ImageRef:  meta.ImageRef,
		}
		e.lines = append(e.lines, line)
		pending = pendingMutation{productID: productID}
		created = true
	default:
		prior := e.lines[idx]
		line = prior
		line.Quantity = max(prior.Quantity+delta, 1)
		e.lines[idx] = line
		pending = pendingMutation{productID: productID, prior: &prior}
	}

	s := newSync()
	// Detach from the caller's lifetime: the remote call settles shared
	// state, so no single caller may cancel it. The gateway timeout still
	// bounds it.
	bgCtx := context.WithoutCancel(ctx)
	e.enqueueLocked(productID, func(last func() bool) {
		e.pushQuantity(bgCtx, pending, line.Quantity, created, s, last)
	})
	e.notifyLocked(e.snapshotLocked())
	e.mu.Unlock()

	return line, s, nil
}

// RemoveLine deletes a line locally and in the background on the server.
// A failed removal is not rolled back: the server's state is genuinely
// ambiguous at that point, so the engine discards its local guess and
// refetches the authoritative cart before surfacing the error.
func (e *Engine) RemoveLine(ctx context.Context, productID int64) (*Sync, error) {
	e.mu.Lock()

	idx := e.indexLocked(productID)
	if idx < 0 {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: product %d", ErrLineNotFound, productID)
	}
	e.lines = slices.Delete(e.lines, idx, idx+1)

	s := newSync()
	bgCtx := context.WithoutCancel(ctx)
	e.enqueueLocked(productID, func(func() bool) {
		e.pushRemoval(bgCtx, productID, s)
	})
	e.notifyLocked(e.snapshotLocked())
	e.mu.Unlock()

	return s, nil
}

// Clear empties the local snapshot without calling the server. Used on
// sign-out, when the server-side cart no longer belongs to this session.
func (e *Engine) Clear() {
	e.mu.Lock()
	if len(e.lines) == 0 {
		e.mu.Unlock()
		return
	}
	e.lines = nil
	e.notifyLocked(e.snapshotLocked())
	e.mu.Unlock()
}

// Snapshot returns a copy of the current cart.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Count returns the derived total item count. No I/O.
func (e *Engine) Count() int {
	return e.Snapshot().ItemCount()
}

// Subtotal returns the derived cart subtotal. No I/O.
func (e *Engine) Subtotal() money.Amount {
	return e.Snapshot().Subtotal()
}

// Subscribe returns a channel of snapshots emitted after every local change.
// The subscription ends when ctx is cancelled; delivery is non-blocking and
// a full buffer drops the update for that subscriber.
func (e *Engine) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, e.bufSize)

	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.subs, ch)
		e.mu.Unlock()
		close(ch)
	}()

	return ch
}

// pushQuantity reconciles one optimistic quantity change with the server.
// A line created locally goes through the add endpoint (nothing existed, so
// add-by-quantity and the resulting absolute quantity coincide); an adjusted
// line always sends the resulting absolute quantity, never the delta.
func (e *Engine) pushQuantity(ctx context.Context, m pendingMutation, quantity int, created bool, s *Sync, last func() bool) {
	path := quantityPath
	if created {
		path = addPath
	}

	_, err := e.caller.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   mutationPayload{ProductID: m.productID, Quantity: quantity},
	})
	if err != nil {
		if created && !last() {
			// A later mutation on this product is already queued against
			// the line this call failed to create, so deleting the line
			// would guess at a state the successor may yet change on the
			// server. Settle like a failed removal: take server truth.
			err = fmt.Errorf("%w: create of product %d failed: %w", errReconciliationRequired, m.productID, err)
			e.log.WarnContext(ctx, "cart line create rejected with queued successor, refetching authoritative cart",
				slog.Int64("product_id", m.productID),
				slog.Any("error", err),
			)
			if _, loadErr := e.LoadAuthoritative(ctx); loadErr != nil {
				e.log.ErrorContext(ctx, "authoritative refetch after failed create also failed",
					slog.Any("error", loadErr),
				)
			}
			s.complete(fmt.Errorf("cart: quantity update failed: %w", err))
			return
		}
		e.rollback(m)
		e.log.WarnContext(ctx, "cart quantity update rejected, local change reverted",
			slog.Int64("product_id", m.productID),
			slog.Int("quantity", quantity),
			slog.Any("error", err),
		)
		s.complete(fmt.Errorf("cart: quantity update failed: %w", err))
		return
	}
	s.complete(nil)
}

// pushRemoval reconciles one optimistic removal with the server.
func (e *Engine) pushRemoval(ctx context.Context, productID int64, s *Sync) {
	_, err := e.caller.Do(ctx, apiclient.Request{
		Method: http.MethodDelete,
		Path:   removePath,
		Body:   mutationPayload{ProductID: productID},
	})
	if err == nil {
		s.complete(nil)
		return
	}

	err = fmt.Errorf("%w: removal of product %d failed: %w", errReconciliationRequired, productID, err)
	e.log.WarnContext(ctx, "cart removal rejected, refetching authoritative cart",
		slog.Int64("product_id", productID),
		slog.Any("error", err),
	)
	if _, loadErr := e.LoadAuthoritative(ctx); loadErr != nil {
		e.log.ErrorContext(ctx, "authoritative refetch after failed removal also failed",
			slog.Any("error", loadErr),
		)
	}
	s.complete(fmt.Errorf("cart: remove line: %w", err))
}

// rollback restores the captured prior state after a failed remote call.
// If the line has since been removed locally, that later mutation owns the
// current state and nothing is restored.
func (e *Engine) rollback(m pendingMutation) {
	e.mu.Lock()
	idx := e.indexLocked(m.productID)
	switch {
	case m.prior == nil:
		// The line was created by this mutation; take it back out.
		if idx >= 0 {
			e.lines = slices.Delete(e.lines, idx, idx+1)
		}
	case idx >= 0:
		e.lines[idx] = *m.prior
	}
	e.notifyLocked(e.snapshotLocked())
	e.mu.Unlock()
}

// enqueueLocked appends a background job to the product's mutation chain.
// The job receives a check reporting whether it is still the chain's tail,
// meaning no later mutation on this product has been queued. Caller holds
// e.mu.
func (e *Engine) enqueueLocked(productID int64, job func(last func() bool)) {
	prev := e.tails[productID]
	done := make(chan struct{})
	e.tails[productID] = done

	last := func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.tails[productID] == done
	}

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		job(last)

		e.mu.Lock()
		if e.tails[productID] == done {
			delete(e.tails, productID)
		}
		e.mu.Unlock()
	}()
}

func (e *Engine) indexLocked(productID int64) int {
	return slices.IndexFunc(e.lines, func(l Line) bool {
		return l.ProductID == productID
	})
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{Lines: slices.Clone(e.lines)}
}

func (e *Engine) notifyLocked(snap Snapshot) {
	for ch := range e.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
