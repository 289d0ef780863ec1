package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/provisioning"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// TenantProvisioner creates and tears down stores together with their admin.
type TenantProvisioner interface {
	CreateTenant(ctx context.Context, p access.Principal, in provisioning.CreateTenantInput) (*provisioning.CreateResult, error)
	DeleteTenant(ctx context.Context, p access.Principal, storeID uuid.UUID) (*provisioning.DeleteResult, error)
}

type resetRequester interface {
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
}

type createStoreRequest struct {
	Name           string             `json:"name" validate:"required,max=120"`
	Owner          string             `json:"owner" validate:"required,max=120"`
	Status         string             `json:"status" validate:"omitempty,oneof=active suspended"`
	Plan           string             `json:"plan" validate:"omitempty,oneof=basic premium"`
	Template       string             `json:"template" validate:"required"`
	Currency       string             `json:"currency" validate:"omitempty,oneof=PEN USD"`
	WhatsappNumber string             `json:"whatsapp_number"`
	PaymentInfo    *types.PaymentInfo `json:"payment_info"`
	Theme          *types.Theme       `json:"theme"`
	LogoURL        *string            `json:"logo_url" validate:"omitempty,url"`
	AdminEmail     string             `json:"admin_email" validate:"required,email"`
	AdminPassword  string             `json:"admin_password" validate:"required"`
}

func (r createStoreRequest) toInput() provisioning.CreateTenantInput {
	in := provisioning.CreateTenantInput{
		Store: stores.CreateStoreDTO{
			Name:           r.Name,
			Owner:          r.Owner,
			Status:         enums.StoreStatus(r.Status),
			Plan:           enums.StorePlan(r.Plan),
			Template:       enums.StoreTemplate(r.Template),
			Currency:       enums.Currency(r.Currency),
			WhatsappNumber: r.WhatsappNumber,
			LogoURL:        r.LogoURL,
		},
		AdminEmail:    r.AdminEmail,
		AdminPassword: r.AdminPassword,
	}
	if r.PaymentInfo != nil {
		in.Store.PaymentInfo = *r.PaymentInfo
	}
	if r.Theme != nil {
		in.Store.Theme = *r.Theme
	}
	return in
}

type updateStoreRequest struct {
	Name           *string            `json:"name" validate:"omitempty,max=120"`
	Owner          *string            `json:"owner" validate:"omitempty,max=120"`
	Status         *string            `json:"status" validate:"omitempty,oneof=active suspended"`
	Plan           *string            `json:"plan" validate:"omitempty,oneof=basic premium"`
	Template       *string            `json:"template"`
	Currency       *string            `json:"currency" validate:"omitempty,oneof=PEN USD"`
	WhatsappNumber *string            `json:"whatsapp_number"`
	PaymentInfo    *types.PaymentInfo `json:"payment_info"`
	Theme          *types.Theme       `json:"theme"`
	LogoURL        *string            `json:"logo_url" validate:"omitempty,url"`
}

func (r updateStoreRequest) toInput() stores.UpdateStoreInput {
	in := stores.UpdateStoreInput{
		Name:           r.Name,
		Owner:          r.Owner,
		WhatsappNumber: r.WhatsappNumber,
		PaymentInfo:    r.PaymentInfo,
		Theme:          r.Theme,
		LogoURL:        r.LogoURL,
	}
	if r.Status != nil {
		v := enums.StoreStatus(*r.Status)
		in.Status = &v
	}
	if r.Plan != nil {
		v := enums.StorePlan(*r.Plan)
		in.Plan = &v
	}
	if r.Template != nil {
		v := enums.StoreTemplate(*r.Template)
		in.Template = &v
	}
	if r.Currency != nil {
		v := enums.Currency(*r.Currency)
		in.Currency = &v
	}
	return in
}

type adminResetRequest struct {
	RedirectTo string `json:"redirect_to" validate:"omitempty,url"`
}

type deleteStoreResponse struct {
	*provisioning.DeleteResult
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RootListStores enumerates every tenant.
func RootListStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}
		list, err := svc.List(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func RootStoreStats(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}
		stats, err := svc.Stats(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// StoreGet returns the store addressed by the route. Root reads any store,
// admins only their own.
func StoreGet(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}
		store, err := svc.Get(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// StoreUpdate applies a partial update. Field-level rules are enforced by
// the store service.
func StoreUpdate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}

		var body updateStoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// RootCreateStore provisions a store together with its admin account.
func RootCreateStore(saga TenantProvisioner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if saga == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("provisioning"))
			return
		}

		var body createStoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := saga.CreateTenant(r.Context(), middleware.PrincipalFromContext(r.Context()), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// RootDeleteStore tears down a store and its admin account.
func RootDeleteStore(saga TenantProvisioner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if saga == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("provisioning"))
			return
		}

		result, err := saga.DeleteTenant(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deleteStoreResponse{DeleteResult: result, Success: true, Message: result.Message()})
	}
}

// RootResetAdminPassword mails a reset link to the admin of the store.
func RootResetAdminPassword(svc stores.Service, resetter resetRequester, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || resetter == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("password reset"))
			return
		}

		var body adminResetRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		email, err := svc.AdminEmail(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := resetter.RequestPasswordReset(r.Context(), email, body.RedirectTo); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOperation(w, "reset link sent to "+email)
	}
}
