package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/access"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// RequireRoot admits only the platform operator.
func RequireRoot(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(logg, func(p access.Principal) bool {
		_, ok := p.(access.Root)
		return ok
	})
}

// RequireAdmin admits only store admins. Which store they may touch is
// decided by the services.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(logg, func(p access.Principal) bool {
		_, ok := p.(access.Admin)
		return ok
	})
}

func requireKind(logg *logger.Logger, allowed func(access.Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if _, anon := p.(access.Anonymous); anon {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !allowed(p) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
