package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/identity"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Authenticator resolves a bearer token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*identity.Current, error)
}

// Auth validates a bearer token and seeds the request context with the caller.
func Auth(authn Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			current, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithCurrent(r.Context(), current)
			if logg != nil {
				fields := map[string]any{
					"user_id":    access.UserIDOf(current.Principal).String(),
					"actor_role": current.Principal.Kind(),
				}
				if admin, ok := current.Principal.(access.Admin); ok {
					fields["store_id"] = admin.StoreID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
