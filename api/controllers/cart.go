package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/jaylife/storefront-api/api/responses"
	"github.com/jaylife/storefront-api/api/validators"
	cartsvc "github.com/jaylife/storefront-api/internal/cart"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/logger"
)

const (
	actionCreate = "create"
	actionAdd    = "add"
	actionUpdate = "update"
	actionRemove = "remove"
)

type cartWriteRequest struct {
	Action        string `json:"action" validate:"required,oneof=create add update remove"`
	CartID        string `json:"cartId,omitempty"`
	MerchandiseID string `json:"merchandiseId,omitempty"`
	LineID        string `json:"lineId,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
}

// CartFetch reads the cart behind an existing session id. A request with no
// id is the valid "no cart yet" state and answers with a null cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID := strings.TrimSpace(r.URL.Query().Get("cartId"))
		if cartID == "" {
			responses.WriteCart(w, nil)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCartID(ctx, cartID)
		}

		record, err := svc.Fetch(ctx, cartID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteCart(w, record)
	}
}

// CartWrite dispatches a mutation by its action discriminator. An add
// without a session id creates the cart implicitly.
func CartWrite(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil && payload.CartID != "" {
			ctx = logg.WithCartID(ctx, payload.CartID)
		}

		record, err := dispatchCartWrite(ctx, svc, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteCart(w, record)
	}
}

func dispatchCartWrite(ctx context.Context, svc cartsvc.Service, payload cartWriteRequest) (*cartsvc.Cart, error) {
	switch payload.Action {
	case actionCreate:
		return svc.Create(ctx, payload.MerchandiseID, payload.Quantity)
	case actionAdd:
		if strings.TrimSpace(payload.CartID) == "" {
			return svc.Create(ctx, payload.MerchandiseID, payload.Quantity)
		}
		return svc.Add(ctx, payload.CartID, payload.MerchandiseID, payload.Quantity)
	case actionUpdate:
		return svc.Update(ctx, payload.CartID, payload.LineID, payload.Quantity)
	case actionRemove:
		return svc.Remove(ctx, payload.CartID, payload.LineID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action")
}
