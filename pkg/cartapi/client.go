// Package cartapi is the Go client for the cart gateway's HTTP surface. It
// satisfies the session Gateway contract so a session can run out of
// process from the gateway.
package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaylife/storefront-api/internal/cart"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{httpClient: httpClient, baseURL: base}, nil
}

type cartEnvelope struct {
	Cart  *cart.Cart `json:"cart"`
	Error string     `json:"error"`
}

type writeRequest struct {
	Action        string `json:"action"`
	CartID        string `json:"cartId,omitempty"`
	MerchandiseID string `json:"merchandiseId,omitempty"`
	LineID        string `json:"lineId,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
}

func (c *Client) Fetch(ctx context.Context, sessionID string) (*cart.Cart, error) {
	endpoint := c.baseURL + "/api/cart?cartId=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cart request")
	}
	return c.do(req)
}

func (c *Client) Create(ctx context.Context, merchandiseID string, quantity int) (*cart.Cart, error) {
	return c.write(ctx, writeRequest{
		Action:        "create",
		MerchandiseID: merchandiseID,
		Quantity:      quantity,
	})
}

func (c *Client) Add(ctx context.Context, sessionID, merchandiseID string, quantity int) (*cart.Cart, error) {
	return c.write(ctx, writeRequest{
		Action:        "add",
		CartID:        sessionID,
		MerchandiseID: merchandiseID,
		Quantity:      quantity,
	})
}

func (c *Client) Update(ctx context.Context, sessionID, lineID string, quantity int) (*cart.Cart, error) {
	return c.write(ctx, writeRequest{
		Action:   "update",
		CartID:   sessionID,
		LineID:   lineID,
		Quantity: quantity,
	})
}

func (c *Client) Remove(ctx context.Context, sessionID, lineID string) (*cart.Cart, error) {
	return c.write(ctx, writeRequest{
		Action: "remove",
		CartID: sessionID,
		LineID: lineID,
	})
}

func (c *Client) write(ctx context.Context, payload writeRequest) (*cart.Cart, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cart", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cart request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*cart.Cart, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart gateway request failed")
	}
	defer resp.Body.Close()

	var envelope cartEnvelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decoding cart gateway response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromStatus(resp.StatusCode, envelope.Error)
	}
	if envelope.Cart == nil {
		// A supplied session id that the gateway answers with a null cart no
		// longer resolves.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return envelope.Cart, nil
}

// errorFromStatus rebuilds the typed error the gateway flattened onto the
// wire, so callers see the same taxonomy in and out of process.
func errorFromStatus(status int, message string) error {
	code := pkgerrors.CodeInternal
	switch status {
	case http.StatusBadRequest:
		code = pkgerrors.CodeValidation
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusUnprocessableEntity:
		code = pkgerrors.CodeBusinessRule
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = pkgerrors.CodeDependency
	}
	if message == "" {
		message = pkgerrors.MetadataFor(code).PublicMessage
	}
	return pkgerrors.New(code, message)
}
