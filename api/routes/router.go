package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/dashboard"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Params carries everything the HTTP surface is built from. Nil services
// produce handlers that answer with an internal error.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Identity     IdentityService
	Stores       stores.Service
	Catalog      catalog.Service
	Orders       orders.Service
	Dashboard    dashboard.Service
	Cart         cart.Service
	Provisioning controllers.TenantProvisioner
}

// IdentityService is satisfied by *identity.Gateway.
type IdentityService interface {
	controllers.IdentityGateway
	middleware.Authenticator
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
		middleware.Metrics(p.HTTPMetrics),
	)

	// A nil *redis.Client must stay a nil interface so the limiter is skipped.
	var limiterStore middleware.RateLimiterStore
	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["db"] = p.DB
	}
	if p.Redis != nil {
		limiterStore = p.Redis
		deps["redis"] = p.Redis
	}
	loginLimit := middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), limiterStore, logg)
	resetLimit := middleware.AuthRateLimit(middleware.ResetRateLimitPolicy(cfg.AuthRateLimit), limiterStore, logg)

	var (
		gateway    controllers.IdentityGateway
		authn      middleware.Authenticator
		storefront controllers.StorefrontLoader
	)
	if p.Identity != nil {
		gateway = p.Identity
		authn = p.Identity
	}
	if p.Dashboard != nil {
		storefront = p.Dashboard
	}
	provisioner := p.Provisioning

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(gateway, logg))
		r.Post("/logout", controllers.AuthLogout(gateway, logg))
		r.Post("/refresh", controllers.AuthRefresh(gateway, logg))
		r.With(resetLimit).Post("/password-reset", controllers.AuthRequestPasswordReset(gateway, logg))
		r.With(resetLimit).Post("/password-reset/complete", controllers.AuthCompletePasswordReset(gateway, logg))
		r.With(authenticate(authn, logg)).Get("/me", controllers.AuthMe(logg))
	})

	r.Route("/api/root/v1", func(r chi.Router) {
		r.Use(authenticate(authn, logg), middleware.RequireRoot(logg))

		r.Get("/stores", controllers.RootListStores(p.Stores, logg))
		r.Post("/stores", controllers.RootCreateStore(provisioner, logg))
		r.Get("/stores/stats", controllers.RootStoreStats(p.Stores, logg))
		r.Route("/stores/{storeId}", func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))
			r.Get("/", controllers.StoreGet(p.Stores, logg))
			r.Patch("/", controllers.StoreUpdate(p.Stores, logg))
			r.Delete("/", controllers.RootDeleteStore(provisioner, logg))
			r.Post("/admin/password-reset", controllers.RootResetAdminPassword(p.Stores, gateway, logg))
		})
	})

	r.Route("/api/v1/stores/{storeId}", func(r chi.Router) {
		r.Use(authenticate(authn, logg), middleware.RequireAdmin(logg), middleware.StoreContext(logg))

		r.Get("/", controllers.StoreGet(p.Stores, logg))
		r.Patch("/", controllers.StoreUpdate(p.Stores, logg))
		r.Get("/dashboard", controllers.AdminDashboard(p.Dashboard, logg))
		r.Get("/orders", controllers.AdminListOrders(p.Orders, logg))

		r.Get("/products", controllers.AdminListProducts(p.Catalog, logg))
		r.Post("/products", controllers.AdminCreateProduct(p.Catalog, logg))
		r.Patch("/products/{productId}/active", controllers.AdminSetProductActive(p.Catalog, logg))
		r.Delete("/products/{productId}", controllers.AdminDeleteProduct(p.Catalog, logg))

		r.Get("/categories", controllers.AdminListCategories(p.Catalog, logg))
		r.Post("/categories", controllers.AdminCreateCategory(p.Catalog, logg))
	})

	r.Route("/api/public/v1/stores/{storeId}", func(r chi.Router) {
		r.Use(middleware.StoreContext(logg))
		r.Get("/", controllers.PublicStorefront(storefront, logg))
		r.Post("/checkout", controllers.PublicCheckout(p.Cart, logg))
	})

	return r
}

func authenticate(authn middleware.Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	if authn == nil {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "identity unavailable"))
			})
		}
	}
	return middleware.Auth(authn, logg)
}
