package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jaylife/storefront-api/internal/cart"
	pkgerrors "github.com/jaylife/storefront-api/pkg/errors"
	"github.com/jaylife/storefront-api/pkg/logger"
)

// CartEnvelope is the success shape of both cart endpoints. Cart is null
// when the caller has no session yet.
type CartEnvelope struct {
	Cart *cart.Cart `json:"cart"`
}

// ErrorEnvelope carries a single user-renderable message.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

func WriteCart(w http.ResponseWriter, c *cart.Cart) {
	writeJSON(w, http.StatusOK, CartEnvelope{Cart: c})
}

// WriteError maps a typed error onto its HTTP status and public message.
// Codes whose details are allowed (validation, business rule) surface the
// error's own message verbatim; everything else gets the generic message so
// transport internals never leak to callers.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if meta.DetailsAllowed && typed.Message() != "" {
		msg = typed.Message()
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, ErrorEnvelope{Error: msg})
}

// WriteJSON writes an arbitrary payload, used by the health endpoints.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
