package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// BearerToken extracts the access token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid authorization header")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
