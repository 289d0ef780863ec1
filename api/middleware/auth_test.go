package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubAuthenticator struct {
	current *identity.Current
	err     error
	token   string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*identity.Current, error) {
	s.token = token
	return s.current, s.err
}

func okHandler(seen *access.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = PrincipalFromContext(r.Context())
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthSeedsPrincipal(t *testing.T) {
	admin := access.Admin{UserID: uuid.New(), StoreID: uuid.New()}
	authn := &stubAuthenticator{current: &identity.Current{AccessID: "a1", Principal: admin}}

	var seen access.Principal
	h := Auth(authn, nil)(okHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tok", authn.token)
	assert.Equal(t, admin, seen)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	authn := &stubAuthenticator{}
	h := Auth(authn, nil)(okHandler(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, authn.token)
}

func TestAuthPropagatesGatewayError(t *testing.T) {
	authn := &stubAuthenticator{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")}
	h := Auth(authn, nil)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGuards(t *testing.T) {
	root := access.Root{UserID: uuid.New()}
	admin := access.Admin{UserID: uuid.New(), StoreID: uuid.New()}

	cases := []struct {
		name      string
		guard     func(http.Handler) http.Handler
		principal access.Principal
		want      int
	}{
		{"root passes root guard", RequireRoot(nil), root, http.StatusNoContent},
		{"admin blocked by root guard", RequireRoot(nil), admin, http.StatusForbidden},
		{"anonymous blocked by root guard", RequireRoot(nil), nil, http.StatusUnauthorized},
		{"admin passes admin guard", RequireAdmin(nil), admin, http.StatusNoContent},
		{"root blocked by admin guard", RequireAdmin(nil), root, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.principal != nil {
				req = req.WithContext(WithCurrent(req.Context(), &identity.Current{Principal: tc.principal}))
			}
			rec := httptest.NewRecorder()
			tc.guard(okHandler(nil)).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestStoreContextParsesRouteParam(t *testing.T) {
	storeID := uuid.New()
	var got uuid.UUID

	r := chi.NewRouter()
	r.With(StoreContext(nil)).Get("/stores/{storeId}", func(w http.ResponseWriter, r *http.Request) {
		got = StoreIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores/"+storeID.String(), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, storeID, got)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDEchoesHeader(t *testing.T) {
	h := RequestID(nil)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
