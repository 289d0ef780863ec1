package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/dashboard"
	"github.com/angelmondragon/storefront-backend/internal/identity"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/provisioning"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/mail"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/retry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	credentials := identity.NewCredentialRepository(dbClient.DB())
	profiles := users.NewRepository(dbClient.DB())
	storeRepo := stores.NewRepository(dbClient.DB())
	policy := retry.FromConfig(cfg.Retry)

	gateway, err := identity.NewGateway(identity.GatewayParams{
		Credentials: credentials,
		Profiles:    profiles,
		Sessions:    sessionManager,
		Resets:      redisClient,
		Mailer:      mail.NewSender(cfg.Mail, cfg.App, logg),
		JWT:         cfg.JWT,
		Password:    cfg.Password,
		Identity:    cfg.Identity,
		Logger:      logg,
	})
	if err != nil {
		return err
	}
	unsubscribe := gateway.Subscribe(func(evt identity.Event) {
		evtCtx := logg.WithFields(context.Background(), map[string]any{
			"event":   string(evt.Type),
			"user_id": evt.UserID.String(),
		})
		logg.Info(evtCtx, "identity.auth_state_changed")
	})
	defer unsubscribe()

	identityAdmin, err := identity.NewAdmin(credentials, cfg.Password, cfg.Identity, logg)
	if err != nil {
		return err
	}

	saga, err := provisioning.New(provisioning.Params{
		Identity:     identityAdmin,
		Tenants:      storeRepo,
		Profiles:     profiles,
		Metrics:      metrics.NewProvisioningMetrics(reg),
		Logger:       logg,
		Provisioning: cfg.Provisioning,
		AutoConfirm:  cfg.Identity.AutoConfirmProvision,
		Retry:        policy,
	})
	if err != nil {
		return err
	}

	storeService, err := stores.NewService(storeRepo, profiles)
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	dashboardService, err := dashboard.NewService(storeService, catalogService, ordersService, policy, logg)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(storeService, catalogService)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Params{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Gatherer:     reg,
			HTTPMetrics:  metrics.NewHTTPMetrics(reg),
			Identity:     gateway,
			Stores:       storeService,
			Catalog:      catalogService,
			Orders:       ordersService,
			Dashboard:    dashboardService,
			Cart:         cartService,
			Provisioning: saga,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(srvCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(srvCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
