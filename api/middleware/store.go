package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// StoreContext parses the {storeId} route parameter into the context.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID, err := validators.UUIDParam(r, "storeId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithStoreID(r.Context(), storeID)
			if logg != nil {
				ctx = logg.WithStoreID(ctx, storeID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
