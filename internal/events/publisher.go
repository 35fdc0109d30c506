package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jaylife/storefront-api/pkg/config"
	"github.com/jaylife/storefront-api/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// CartEvent is the payload published for cart lifecycle changes.
type CartEvent struct {
	Event         string    `json:"event"`
	CartID        string    `json:"cart_id"`
	TotalQuantity int       `json:"total_quantity"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits cart events to Pub/Sub. Publishing is best effort: a
// failed publish is logged and never fails the cart operation.
type Publisher struct {
	publisher *pubsub.Publisher
	client    *pubsub.Client
	logger    *logger.Logger
}

// NewPublisher creates the Pub/Sub publisher for the configured topic.
func NewPublisher(ctx context.Context, cfg config.PubSubConfig, logg *logger.Logger) (*Publisher, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errProjectIDRequired
	}
	if strings.TrimSpace(cfg.CartEventsTopic) == "" {
		return nil, errors.New("cart events topic is required")
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, err
	}

	if logg != nil {
		logg.Info(ctx, "cart events publisher initialized")
	}

	return &Publisher{
		publisher: client.Publisher(cfg.CartEventsTopic),
		client:    client,
		logger:    logg,
	}, nil
}

// PublishCartEvent emits one event. Nil receivers are no-ops so callers can
// wire the publisher optionally.
func (p *Publisher) PublishCartEvent(ctx context.Context, event, cartID string, totalQuantity int) {
	if p == nil || p.publisher == nil {
		return
	}

	payload, err := json.Marshal(CartEvent{
		Event:         event,
		CartID:        cartID,
		TotalQuantity: totalQuantity,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		if p.logger != nil {
			p.logger.Error(ctx, "encoding cart event", err)
		}
		return
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"event": event},
	})
	if _, err := result.Get(ctx); err != nil && p.logger != nil {
		msg := "cart event publish failed"
		if status.Code(err) == codes.NotFound {
			msg = "cart events topic not found"
		}
		p.logger.Warn(p.logger.WithCartID(ctx, cartID), msg)
	}
}

// Close flushes and releases the underlying client.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
