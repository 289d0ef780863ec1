package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/identity"
	"github.com/angelmondragon/storefront-backend/internal/users"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type sessionGateway interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, accessToken, refreshToken string) (*identity.Session, error)
}

type passwordResetter interface {
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
}

// IdentityGateway is the full set of identity operations the HTTP layer uses.
type IdentityGateway interface {
	sessionGateway
	passwordResetter
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type resetRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to" validate:"omitempty,url"`
}

type resetCompleteRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeDependency, name+" unavailable")
}

// AuthLogin exchanges email and password for a session.
func AuthLogin(gw sessionGateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gw == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("identity gateway"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := gw.SignIn(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// AuthLogout revokes the session behind the presented access token.
func AuthLogout(gw sessionGateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gw == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("identity gateway"))
			return
		}

		token, err := validators.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := gw.SignOut(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthRefresh rotates the refresh token and issues a new access token.
func AuthRefresh(gw sessionGateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gw == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("identity gateway"))
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		token, err := validators.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := gw.Refresh(r.Context(), token, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// AuthMe returns the profile of the authenticated caller.
func AuthMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := middleware.CurrentFromContext(r.Context())
		if current == nil || current.Profile == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		responses.WriteSuccess(w, users.FromModel(current.Profile))
	}
}

// AuthRequestPasswordReset always answers with the same message so the
// endpoint cannot be used to probe for accounts.
func AuthRequestPasswordReset(resetter passwordResetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resetter == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("identity gateway"))
			return
		}

		var body resetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := resetter.RequestPasswordReset(r.Context(), body.Email, body.RedirectTo); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOperation(w, "if the account exists, a reset link has been sent")
	}
}

// AuthCompletePasswordReset sets a new password using a reset token.
func AuthCompletePasswordReset(resetter passwordResetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resetter == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("identity gateway"))
			return
		}

		var body resetCompleteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := resetter.CompletePasswordReset(r.Context(), body.Token, body.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOperation(w, "password updated")
	}
}
