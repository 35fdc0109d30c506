package cartsession

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaylife/storefront-api/internal/cart"
	"github.com/jaylife/storefront-api/internal/sessionstore"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/logger"
)

// Gateway is the normalized operation surface the session calls. It is
// satisfied by the in-process cart service and by the HTTP API client.
type Gateway interface {
	Fetch(ctx context.Context, sessionID string) (*cart.Cart, error)
	Create(ctx context.Context, merchandiseID string, quantity int) (*cart.Cart, error)
	Add(ctx context.Context, sessionID, merchandiseID string, quantity int) (*cart.Cart, error)
	Update(ctx context.Context, sessionID, lineID string, quantity int) (*cart.Cart, error)
	Remove(ctx context.Context, sessionID, lineID string) (*cart.Cart, error)
}

// Options configures a Session.
type Options struct {
	Gateway  Gateway
	Store    sessionstore.Store
	ClientID string
	Logger   *logger.Logger
	// Pulse is the optimistic tactile hook fired when an add is dispatched,
	// before the backend confirms. It is never rolled back.
	Pulse func()
}

// Session owns the client-side cart mirror: it is the only writer of the
// mirrored cart, the only caller of the Gateway, and the only writer of the
// durable session slot. Construct one per client and pass it by reference;
// presentation consumers read state and invoke the four operations.
type Session struct {
	gateway  Gateway
	store    sessionstore.Store
	clientID string
	logger   *logger.Logger
	pulse    func()

	mu         sync.Mutex
	cart       *cart.Cart
	state      State
	lastErr    string
	drawerOpen bool

	// seq orders dispatched requests; a response reconciles only when no
	// newer request was issued after it, so overlapping mutations cannot
	// apply out of order.
	seq     uint64
	applied uint64
}

// New builds an idle session with an empty cart mirror.
func New(opts Options) (*Session, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if opts.ClientID == "" {
		return nil, fmt.Errorf("client id required")
	}
	return &Session{
		gateway:  opts.Gateway,
		store:    opts.Store,
		clientID: opts.ClientID,
		logger:   opts.Logger,
		pulse:    opts.Pulse,
		cart:     cart.Empty(),
		state:    StateIdle,
	}, nil
}

// Start restores the session on mount: when the durable slot holds an id it
// fetches the cart, otherwise the session stays idle with an empty cart.
func (s *Session) Start(ctx context.Context) <-chan Result {
	storedID, ok := s.store.Get(ctx, s.clientID)
	if !ok {
		return s.immediate()
	}
	return s.dispatch(ctx, StateLoading, func(ctx context.Context) (*cart.Cart, error) {
		return s.gateway.Fetch(ctx, storedID)
	})
}

// AddItem adds quantity units of the merchandise. When no session exists yet
// the backend creates one implicitly. Quantities below one are coerced to
// one. The drawer opens and the pulse fires optimistically.
func (s *Session) AddItem(ctx context.Context, merchandiseID string, quantity int) <-chan Result {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	s.drawerOpen = true
	sessionID := s.cart.ID
	s.mu.Unlock()

	if s.pulse != nil {
		s.pulse()
	}

	return s.dispatch(ctx, StateSubmitting, func(ctx context.Context) (*cart.Cart, error) {
		if sessionID == "" {
			return s.gateway.Create(ctx, merchandiseID, quantity)
		}
		return s.gateway.Add(ctx, sessionID, merchandiseID, quantity)
	})
}

// UpdateItem sets a line's quantity. Non-positive quantities are forwarded
// unchanged; the gateway owns the remove-on-zero rule. Without a session id
// this is a no-op.
func (s *Session) UpdateItem(ctx context.Context, lineID string, quantity int) <-chan Result {
	s.mu.Lock()
	sessionID := s.cart.ID
	s.mu.Unlock()
	if sessionID == "" {
		return s.immediate()
	}

	return s.dispatch(ctx, StateSubmitting, func(ctx context.Context) (*cart.Cart, error) {
		return s.gateway.Update(ctx, sessionID, lineID, quantity)
	})
}

// RemoveItem deletes a line. Without a session id there is nothing to
// remove and the call is a no-op.
func (s *Session) RemoveItem(ctx context.Context, lineID string) <-chan Result {
	s.mu.Lock()
	sessionID := s.cart.ID
	s.mu.Unlock()
	if sessionID == "" {
		return s.immediate()
	}

	return s.dispatch(ctx, StateSubmitting, func(ctx context.Context) (*cart.Cart, error) {
		return s.gateway.Remove(ctx, sessionID, lineID)
	})
}

// ClearCart resets the mirror and the durable slot without notifying the
// backend; the server-side cart is left to expire. In-flight responses are
// invalidated so a late arrival cannot resurrect the cleared cart.
func (s *Session) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	s.cart = cart.Empty()
	s.state = StateIdle
	s.lastErr = ""
	s.drawerOpen = false
	s.mu.Unlock()

	s.store.Clear(ctx, s.clientID)
}

// Cart returns the last-known-good cart mirror.
func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.cart
}

// TotalQuantity is a convenience accessor for badge rendering.
func (s *Session) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalQuantity
}

// State reports the request lifecycle tag.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last surfaced error message, empty when the last
// reconciled response succeeded. Stale-session recoveries never surface.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsOpen reports the drawer flag.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// OpenDrawer opens the cart drawer.
func (s *Session) OpenDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = true
}

// CloseDrawer closes the cart drawer.
func (s *Session) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
}

// immediate completes without a backend round trip, delivering the current
// mirror.
func (s *Session) immediate() <-chan Result {
	s.mu.Lock()
	current := *s.cart
	s.mu.Unlock()

	out := make(chan Result, 1)
	out <- Result{Cart: &current}
	close(out)
	return out
}

func (s *Session) dispatch(ctx context.Context, inFlight State, op func(ctx context.Context) (*cart.Cart, error)) <-chan Result {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.state = inFlight
	s.mu.Unlock()

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		result, err := op(ctx)
		out <- s.reconcile(ctx, mySeq, result, err)
	}()
	return out
}

// reconcile folds a response into the mirror. Responses that lost the race
// to a newer request are dropped.
func (s *Session) reconcile(ctx context.Context, mySeq uint64, fresh *cart.Cart, err error) Result {
	s.mu.Lock()

	if mySeq != s.seq {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Debug(ctx, "dropping stale cart response")
		}
		return Result{Cart: fresh, Err: err, Stale: true}
	}
	s.applied = mySeq
	s.state = StateIdle

	if err == nil {
		previousID := s.cart.ID
		s.cart = fresh
		s.lastErr = ""
		newID := fresh.ID
		s.mu.Unlock()

		if newID != "" && newID != previousID {
			s.store.Set(ctx, s.clientID, newID)
		}
		return Result{Cart: fresh}
	}

	if pkgerrors.IsNotFound(err) {
		// The stored id no longer resolves; treat it as never having had a
		// cart. Recovered silently, not surfaced.
		empty := cart.Empty()
		s.cart = empty
		s.lastErr = ""
		s.mu.Unlock()

		s.store.Clear(ctx, s.clientID)
		if s.logger != nil {
			s.logger.Info(s.logger.WithClientID(ctx, s.clientID), "stale cart session reset")
		}
		return Result{Cart: empty}
	}

	// Any other failure keeps the last-known-good mirror and surfaces the
	// message as data for inline rendering.
	s.lastErr = publicMessage(err)
	current := *s.cart
	s.mu.Unlock()

	return Result{Cart: &current, Err: err}
}

func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		meta := pkgerrors.MetadataFor(typed.Code())
		if meta.DetailsAllowed && typed.Message() != "" {
			return typed.Message()
		}
		return meta.PublicMessage
	}
	return "cart operation failed"
}
