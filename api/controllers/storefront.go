package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/dashboard"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// StorefrontLoader reads the visitor view of a store.
type StorefrontLoader interface {
	Storefront(ctx context.Context, storeID uuid.UUID) (*dashboard.Storefront, error)
}

type quoter interface {
	Quote(ctx context.Context, storeID uuid.UUID, input cart.QuoteInput) (*cart.Quote, error)
}

type checkoutLine struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0,lte=10000"`
}

type checkoutRequest struct {
	Items []checkoutLine `json:"items" validate:"required,min=1,dive"`
}

// PublicStorefront serves the visitor view of an active store.
func PublicStorefront(svc StorefrontLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("storefront"))
			return
		}
		view, err := svc.Storefront(r.Context(), middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// PublicCheckout prices the visitor's cart and returns the WhatsApp handoff.
func PublicCheckout(svc quoter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("checkout"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cart.QuoteInput{Lines: make([]cart.QuoteLine, 0, len(body.Items))}
		for _, item := range body.Items {
			input.Lines = append(input.Lines, cart.QuoteLine{VariantID: item.VariantID, Quantity: item.Quantity})
		}

		quote, err := svc.Quote(r.Context(), middleware.StoreIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
