package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/logger"
	"github.com/jaylife/storefront-api/pkg/metrics"
	"github.com/jaylife/storefront-api/pkg/storefront"
)

// Backend is the slice of the storefront client the gateway needs.
type Backend interface {
	FetchCart(ctx context.Context, cartID string) (*storefront.Cart, error)
	CreateCart(ctx context.Context, merchandiseID string, quantity int) (*storefront.Cart, []storefront.UserError, error)
	AddLines(ctx context.Context, cartID, merchandiseID string, quantity int) (*storefront.Cart, []storefront.UserError, error)
	UpdateLines(ctx context.Context, cartID, lineID string, quantity int) (*storefront.Cart, []storefront.UserError, error)
	RemoveLines(ctx context.Context, cartID, lineID string) (*storefront.Cart, []storefront.UserError, error)
}

// Publisher receives best-effort cart lifecycle events.
type Publisher interface {
	PublishCartEvent(ctx context.Context, event, cartID string, totalQuantity int)
}

// Service translates normalized cart operations into the commerce backend's
// protocol. It is stateless and never retries.
type Service interface {
	Fetch(ctx context.Context, sessionID string) (*Cart, error)
	Create(ctx context.Context, merchandiseID string, quantity int) (*Cart, error)
	Add(ctx context.Context, sessionID, merchandiseID string, quantity int) (*Cart, error)
	Update(ctx context.Context, sessionID, lineID string, quantity int) (*Cart, error)
	Remove(ctx context.Context, sessionID, lineID string) (*Cart, error)
}

type service struct {
	backend Backend
	events  Publisher
	metrics *metrics.CartOpMetrics
	logger  *logger.Logger
}

// ServiceParams collects the gateway's collaborators. Events and metrics are
// optional.
type ServiceParams struct {
	Backend Backend
	Events  Publisher
	Metrics *metrics.CartOpMetrics
	Logger  *logger.Logger
}

// NewService builds the gateway service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("storefront backend required")
	}
	return &service{
		backend: params.Backend,
		events:  params.Events,
		metrics: params.Metrics,
		logger:  params.Logger,
	}, nil
}

func (s *service) Fetch(ctx context.Context, sessionID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	defer s.timeOp("fetch")()

	raw, err := s.backend.FetchCart(ctx, sessionID)
	if err != nil {
		s.observe("fetch", err)
		return nil, err
	}
	if raw == nil {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		s.observe("fetch", err)
		return nil, err
	}
	s.observe("fetch", nil)
	return normalize(raw), nil
}

func (s *service) Create(ctx context.Context, merchandiseID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(merchandiseID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	defer s.timeOp("create")()

	raw, userErrs, err := s.backend.CreateCart(ctx, merchandiseID, quantity)
	result, err := s.resolve("create", raw, userErrs, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "cart.created", result)
	return result, nil
}

func (s *service) Add(ctx context.Context, sessionID, merchandiseID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if strings.TrimSpace(merchandiseID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	defer s.timeOp("add")()

	raw, userErrs, err := s.backend.AddLines(ctx, sessionID, merchandiseID, quantity)
	result, err := s.resolve("add", raw, userErrs, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "cart.updated", result)
	return result, nil
}

// Update sets a line's quantity. A quantity of zero or less performs a
// remove instead; this is the single place that rule lives.
func (s *service) Update(ctx context.Context, sessionID, lineID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	if quantity <= 0 {
		return s.Remove(ctx, sessionID, lineID)
	}
	defer s.timeOp("update")()

	raw, userErrs, err := s.backend.UpdateLines(ctx, sessionID, lineID, quantity)
	result, err := s.resolve("update", raw, userErrs, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "cart.updated", result)
	return result, nil
}

func (s *service) Remove(ctx context.Context, sessionID, lineID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	defer s.timeOp("remove")()

	raw, userErrs, err := s.backend.RemoveLines(ctx, sessionID, lineID)
	result, err := s.resolve("remove", raw, userErrs, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "cart.updated", result)
	return result, nil
}

// resolve applies the shared mutation-response rules: transport errors pass
// through, userErrors become business-rule rejections with the backend
// message verbatim, and a missing cart on a well-formed mutation means the
// session id is no longer recognized.
func (s *service) resolve(op string, raw *storefront.Cart, userErrs []storefront.UserError, err error) (*Cart, error) {
	if err != nil {
		s.observe(op, err)
		return nil, err
	}
	if len(userErrs) > 0 {
		err := pkgerrors.New(pkgerrors.CodeBusinessRule, userErrs[0].Message)
		s.observe(op, err)
		return nil, err
	}
	if raw == nil {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		s.observe(op, err)
		return nil, err
	}
	s.observe(op, nil)
	return normalize(raw), nil
}

func (s *service) timeOp(op string) func() {
	if s.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		s.metrics.ObserveDuration(op, time.Since(start))
	}
}

func (s *service) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.IncFailure(op, string(pkgerrors.As(err).Code()))
		return
	}
	s.metrics.IncSuccess(op)
}

// publish is fire-and-forget; a failed event never fails the operation.
func (s *service) publish(ctx context.Context, event string, cart *Cart) {
	if s.events == nil || cart == nil {
		return
	}
	s.events.PublishCartEvent(ctx, event, cart.ID, cart.TotalQuantity)
}
