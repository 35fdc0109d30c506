package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaylife/storefront-api/pkg/config"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.StorefrontConfig{
		StoreDomain: "jaylife.myshopify.com",
		APIVersion:  "2024-10",
		AccessToken: "shpat_test",
		Timeout:     2 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.endpoint = srv.URL
	return c, srv
}

func TestNewClientValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	if _, err := NewClient(config.StorefrontConfig{AccessToken: "x"}, logg); err == nil {
		t.Fatal("expected error for missing domain")
	}
	if _, err := NewClient(config.StorefrontConfig{StoreDomain: "d.myshopify.com"}, logg); err == nil {
		t.Fatal("expected error for missing token")
	}
	if _, err := NewClient(config.StorefrontConfig{StoreDomain: "d.myshopify.com", AccessToken: "x"}, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestDoSendsAccessToken(t *testing.T) {
	var gotToken string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(accessTokenHeader)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	})

	if err := c.Do(context.Background(), shopQuery, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotToken != "shpat_test" {
		t.Fatalf("access token header missing, got %q", gotToken)
	}
}

func TestDoMapsTransportFailure(t *testing.T) {
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := c.Do(context.Background(), shopQuery, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDoMapsGraphQLErrors(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "throttled"}},
		})
	})

	err := c.Do(context.Background(), shopQuery, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if typed.Message() != "throttled" {
		t.Fatalf("expected backend message, got %q", typed.Message())
	}
}

func TestFetchCartDecodesPayload(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Variables["cartId"] != "gid://shopify/Cart/1" {
			t.Errorf("unexpected cartId variable %v", req.Variables["cartId"])
		}
		w.Write([]byte(`{"data":{"cart":{
			"id":"gid://shopify/Cart/1",
			"checkoutUrl":"https://jaylife.com/checkout",
			"totalQuantity":2,
			"cost":{"subtotalAmount":{"amount":"39.98","currencyCode":"USD"}},
			"lines":{"nodes":[{
				"id":"gid://shopify/CartLine/1",
				"quantity":2,
				"merchandise":{
					"id":"gid://shopify/ProductVariant/11",
					"title":"Default Title",
					"product":{"title":"Calm Drops","handle":"calm-drops"},
					"price":{"amount":"19.99","currencyCode":"USD"}
				}
			}]}
		}}}`))
	})

	cart, err := c.FetchCart(context.Background(), "gid://shopify/Cart/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart == nil || cart.TotalQuantity != 2 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if got := cart.Cost.SubtotalAmount.Amount.String(); got != "39.98" {
		t.Fatalf("unexpected subtotal %s", got)
	}
}

func TestFetchCartNullCart(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"cart":null}}`))
	})

	cart, err := c.FetchCart(context.Background(), "gid://shopify/Cart/expired")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart for unknown id, got %+v", cart)
	}
}

func TestCreateCartSurfacesUserErrors(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"cartCreate":{
			"cart":null,
			"userErrors":[{"field":["lines"],"message":"variant is sold out"}]
		}}}`))
	})

	cart, userErrs, err := c.CreateCart(context.Background(), "gid://shopify/ProductVariant/11", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart != nil {
		t.Fatal("expected nil cart on user error")
	}
	if len(userErrs) != 1 || userErrs[0].Message != "variant is sold out" {
		t.Fatalf("unexpected user errors %v", userErrs)
	}
}
