package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/jaylife/storefront-api/internal/cart"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
)

func TestWriteCart(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCart(rec, &cart.Cart{ID: "gid://shopify/Cart/1", TotalQuantity: 2})

	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var payload CartEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Cart == nil || payload.Cart.ID != "gid://shopify/Cart/1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestWriteCartNull(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCart(rec, nil)

	if got := rec.Body.String(); got != "{\"cart\":null}\n" {
		t.Fatalf("expected null cart envelope, got %q", got)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation surfaces message",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required"),
			wantStatus: 400,
			wantMsg:    "merchandise id is required",
		},
		{
			name:       "not found hides message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "cart gid://x not in backend"),
			wantStatus: 404,
			wantMsg:    "resource not found",
		},
		{
			name:       "business rule passes through verbatim",
			err:        pkgerrors.New(pkgerrors.CodeBusinessRule, "variant is sold out"),
			wantStatus: 422,
			wantMsg:    "variant is sold out",
		},
		{
			name:       "dependency hides transport details",
			err:        pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: refused"), "storefront request failed"),
			wantStatus: 502,
			wantMsg:    "commerce backend unavailable",
		},
		{
			name:       "untyped defaults to internal",
			err:        errors.New("boom"),
			wantStatus: 500,
			wantMsg:    "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status %d, want %d", rec.Code, tc.wantStatus)
			}
			var payload ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error != tc.wantMsg {
				t.Fatalf("message %q, want %q", payload.Error, tc.wantMsg)
			}
		})
	}
}
