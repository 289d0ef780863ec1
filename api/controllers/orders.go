package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/dashboard"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

type orderLister interface {
	ListByStore(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]orders.OrderDTO, error)
	Page(ctx context.Context, p access.Principal, storeID uuid.UUID, params pagination.Params) (*pagination.Page[orders.OrderDTO], error)
}

// AdminListOrders returns the store's orders, newest first. Without ?limit
// or ?cursor the whole list is returned; with either, one page is returned
// and next_cursor is passed back as ?cursor= to continue.
func AdminListOrders(svc orderLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("orders service"))
			return
		}
		limit, err := validators.IntQuery(r, "limit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")}
		principal := middleware.PrincipalFromContext(r.Context())
		storeID := middleware.StoreIDFromContext(r.Context())

		if params.Limit == 0 && params.Cursor == "" {
			all, err := svc.ListByStore(r.Context(), principal, storeID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, all)
			return
		}

		page, err := svc.Page(r.Context(), principal, storeID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminDashboard loads the store, catalog and orders in one response.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("dashboard"))
			return
		}
		view, err := svc.Load(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
