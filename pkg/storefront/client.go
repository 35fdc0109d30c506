package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jaylife/storefront-api/pkg/config"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/logger"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

var (
	errDomainRequired = errors.New("storefront domain is required")
	errTokenRequired  = errors.New("storefront access token is required")
	errLoggerRequired = errors.New("storefront logger is required")
)

// Client speaks the commerce backend's GraphQL protocol with centralized
// auth, timeouts, logging, and error mapping.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *logger.Logger
}

// NewClient validates the credentials and builds the API client.
func NewClient(cfg config.StorefrontConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errDomainRequired
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errTokenRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint(),
		token:      token,
		logger:     logg,
	}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

// Do executes a GraphQL document and decodes the data payload into dest.
// Transport and top-level GraphQL failures surface as dependency errors.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, dest any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding storefront request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building storefront request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storefront unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("storefront returned status %d", resp.StatusCode))
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "malformed storefront response")
	}
	if len(envelope.Errors) > 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, envelope.Errors[0].Message)
	}
	if dest != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding storefront payload")
		}
	}
	return nil
}

// FetchCart queries the current cart by id. A nil cart means the backend no
// longer recognizes the id.
func (c *Client) FetchCart(ctx context.Context, cartID string) (*Cart, error) {
	var payload struct {
		Cart *Cart `json:"cart"`
	}
	err := c.Do(ctx, cartQuery, map[string]any{"cartId": cartID}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Cart, nil
}

// CreateCart asks the backend to create a cart with a single line.
func (c *Client) CreateCart(ctx context.Context, merchandiseID string, quantity int) (*Cart, []UserError, error) {
	var payload struct {
		CartCreate struct {
			Cart       *Cart       `json:"cart"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartCreate"`
	}
	variables := map[string]any{
		"input": map[string]any{
			"lines": []map[string]any{{"merchandiseId": merchandiseID, "quantity": quantity}},
		},
	}
	if err := c.Do(ctx, cartCreateMutation, variables, &payload); err != nil {
		return nil, nil, err
	}
	return payload.CartCreate.Cart, payload.CartCreate.UserErrors, nil
}

// AddLines appends or increments a line on an existing cart.
func (c *Client) AddLines(ctx context.Context, cartID, merchandiseID string, quantity int) (*Cart, []UserError, error) {
	var payload struct {
		CartLinesAdd struct {
			Cart       *Cart       `json:"cart"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartLinesAdd"`
	}
	variables := map[string]any{
		"cartId": cartID,
		"lines":  []map[string]any{{"merchandiseId": merchandiseID, "quantity": quantity}},
	}
	if err := c.Do(ctx, cartLinesAddMutation, variables, &payload); err != nil {
		return nil, nil, err
	}
	return payload.CartLinesAdd.Cart, payload.CartLinesAdd.UserErrors, nil
}

// UpdateLines sets the quantity of an existing line.
func (c *Client) UpdateLines(ctx context.Context, cartID, lineID string, quantity int) (*Cart, []UserError, error) {
	var payload struct {
		CartLinesUpdate struct {
			Cart       *Cart       `json:"cart"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartLinesUpdate"`
	}
	variables := map[string]any{
		"cartId": cartID,
		"lines":  []map[string]any{{"id": lineID, "quantity": quantity}},
	}
	if err := c.Do(ctx, cartLinesUpdateMutation, variables, &payload); err != nil {
		return nil, nil, err
	}
	return payload.CartLinesUpdate.Cart, payload.CartLinesUpdate.UserErrors, nil
}

// RemoveLines deletes a line from the cart.
func (c *Client) RemoveLines(ctx context.Context, cartID, lineID string) (*Cart, []UserError, error) {
	var payload struct {
		CartLinesRemove struct {
			Cart       *Cart       `json:"cart"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartLinesRemove"`
	}
	variables := map[string]any{
		"cartId":  cartID,
		"lineIds": []string{lineID},
	}
	if err := c.Do(ctx, cartLinesRemoveMutation, variables, &payload); err != nil {
		return nil, nil, err
	}
	return payload.CartLinesRemove.Cart, payload.CartLinesRemove.UserErrors, nil
}

// Ping issues a minimal shop query for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.Do(ctx, shopQuery, nil, nil)
}
