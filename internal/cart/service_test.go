package cart

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/storefront"
)

type stubBackend struct {
	cart     *storefront.Cart
	userErrs []storefront.UserError
	err      error

	fetched      string
	created      bool
	addedLine    string
	updatedLine  string
	updatedQty   int
	removedLine  string
	removeCalled int
	updateCalled int
}

func (s *stubBackend) FetchCart(ctx context.Context, cartID string) (*storefront.Cart, error) {
	s.fetched = cartID
	return s.cart, s.err
}

func (s *stubBackend) CreateCart(ctx context.Context, merchandiseID string, quantity int) (*storefront.Cart, []storefront.UserError, error) {
	s.created = true
	return s.cart, s.userErrs, s.err
}

func (s *stubBackend) AddLines(ctx context.Context, cartID, merchandiseID string, quantity int) (*storefront.Cart, []storefront.UserError, error) {
	s.addedLine = merchandiseID
	return s.cart, s.userErrs, s.err
}

func (s *stubBackend) UpdateLines(ctx context.Context, cartID, lineID string, quantity int) (*storefront.Cart, []storefront.UserError, error) {
	s.updateCalled++
	s.updatedLine = lineID
	s.updatedQty = quantity
	return s.cart, s.userErrs, s.err
}

func (s *stubBackend) RemoveLines(ctx context.Context, cartID, lineID string) (*storefront.Cart, []storefront.UserError, error) {
	s.removeCalled++
	s.removedLine = lineID
	return s.cart, s.userErrs, s.err
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) PublishCartEvent(ctx context.Context, event, cartID string, totalQuantity int) {
	p.events = append(p.events, event)
}

func newTestService(t *testing.T, backend Backend, events Publisher) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Backend: backend, Events: events})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresBackend(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing backend")
	}
}

func TestFetchNormalizes(t *testing.T) {
	backend := &stubBackend{cart: rawCart()}
	svc := newTestService(t, backend, nil)

	cart, err := svc.Fetch(context.Background(), "gid://shopify/Cart/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.fetched != "gid://shopify/Cart/1" {
		t.Fatalf("backend queried with %q", backend.fetched)
	}
	if len(cart.Lines) != 2 || cart.TotalQuantity != 3 {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestFetchUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubBackend{cart: nil}, nil)

	_, err := svc.Fetch(context.Background(), "gid://shopify/Cart/expired")
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestFetchRequiresID(t *testing.T) {
	svc := newTestService(t, &stubBackend{}, nil)

	_, err := svc.Fetch(context.Background(), " ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newTestService(t, &stubBackend{}, nil)

	if _, err := svc.Create(context.Background(), "", 1); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for empty merchandise id")
	}
	if _, err := svc.Create(context.Background(), "gid://shopify/ProductVariant/11", 0); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for zero quantity")
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	events := &recordingPublisher{}
	svc := newTestService(t, &stubBackend{cart: rawCart()}, events)

	cart, err := svc.Create(context.Background(), "gid://shopify/ProductVariant/11", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID == "" {
		t.Fatal("expected backend-assigned id")
	}
	if len(events.events) != 1 || events.events[0] != "cart.created" {
		t.Fatalf("unexpected events %v", events.events)
	}
}

func TestAddSurfacesBusinessRuleVerbatim(t *testing.T) {
	backend := &stubBackend{
		userErrs: []storefront.UserError{{Message: "variant is sold out"}},
	}
	svc := newTestService(t, backend, nil)

	_, err := svc.Add(context.Background(), "gid://shopify/Cart/1", "gid://shopify/ProductVariant/11", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected business rule error, got %v", err)
	}
	if typed.Message() != "variant is sold out" {
		t.Fatalf("message should pass through verbatim, got %q", typed.Message())
	}
}

func TestAddPropagatesTransportError(t *testing.T) {
	backend := &stubBackend{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "storefront unreachable")}
	svc := newTestService(t, backend, nil)

	_, err := svc.Add(context.Background(), "gid://shopify/Cart/1", "gid://shopify/ProductVariant/11", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestUpdateZeroQuantityRemovesLine(t *testing.T) {
	backend := &stubBackend{cart: rawCart()}
	svc := newTestService(t, backend, nil)

	_, err := svc.Update(context.Background(), "gid://shopify/Cart/1", "gid://shopify/CartLine/1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.removeCalled != 1 {
		t.Fatalf("expected remove to be invoked, calls=%d", backend.removeCalled)
	}
	if backend.updateCalled != 0 {
		t.Fatal("update mutation must not run for non-positive quantity")
	}
	if backend.removedLine != "gid://shopify/CartLine/1" {
		t.Fatalf("removed wrong line %q", backend.removedLine)
	}
}

func TestUpdateNegativeQuantityRemovesLine(t *testing.T) {
	backend := &stubBackend{cart: rawCart()}
	svc := newTestService(t, backend, nil)

	if _, err := svc.Update(context.Background(), "gid://shopify/Cart/1", "gid://shopify/CartLine/1", -2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.removeCalled != 1 {
		t.Fatal("expected remove to be invoked")
	}
}

func TestUpdatePositiveQuantity(t *testing.T) {
	backend := &stubBackend{cart: rawCart()}
	svc := newTestService(t, backend, nil)

	if _, err := svc.Update(context.Background(), "gid://shopify/Cart/1", "gid://shopify/CartLine/1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.updateCalled != 1 || backend.updatedQty != 5 {
		t.Fatalf("expected update with qty 5, got calls=%d qty=%d", backend.updateCalled, backend.updatedQty)
	}
	if backend.removeCalled != 0 {
		t.Fatal("remove must not run for positive quantity")
	}
}

func TestRemoveMissingCartIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubBackend{cart: nil}, nil)

	_, err := svc.Remove(context.Background(), "gid://shopify/Cart/1", "gid://shopify/CartLine/1")
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
