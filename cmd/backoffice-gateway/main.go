package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/colonydesk/backoffice/internal/api"
	"github.com/colonydesk/backoffice/internal/api/handler"
	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
	"github.com/colonydesk/backoffice/internal/core/service"
	"github.com/colonydesk/backoffice/internal/infrastructure/authapi"
	"github.com/colonydesk/backoffice/internal/infrastructure/db/file"
	"github.com/colonydesk/backoffice/internal/infrastructure/db/memory"
	mongostore "github.com/colonydesk/backoffice/internal/infrastructure/db/mongo"
	redisstore "github.com/colonydesk/backoffice/internal/infrastructure/db/redis"
	"github.com/colonydesk/backoffice/internal/infrastructure/telemetry"
	"github.com/colonydesk/backoffice/internal/infrastructure/transport"
	"github.com/colonydesk/backoffice/internal/pkg/config"
	"github.com/colonydesk/backoffice/pkg/logger"
)

const serviceName = "backoffice-gateway"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: serviceName,
	})

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()
	log := logger.Get()

	shutdownTelemetry := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	}, logger.Component("telemetry"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	store, ping, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	backend, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}

	// Refresh calls go through a plain client so they are never decorated
	// or retried by the authenticated transport.
	base := otelhttp.NewTransport(http.DefaultTransport)
	plainClient := &http.Client{Transport: base, Timeout: cfg.API.RefreshTimeout}
	refresher := authapi.New(cfg.API.BaseURL, plainClient)

	authTransport := transport.New(base, store, refresher, cfg.API.RefreshTimeout, logger.Component("transport"))
	authClient := &http.Client{Transport: authTransport, Timeout: cfg.API.Timeout}

	navigator := api.NewNavigator(logger.Component("navigator"))
	demoRole, ok := domain.ParseRole(cfg.Demo.Role)
	if cfg.Demo.Enabled && !ok {
		log.Warn().Str("role", cfg.Demo.Role).Msg("unknown DEMO_ROLE, using Super Admin")
	}
	session := service.NewSessionService(
		authapi.New(cfg.API.BaseURL, authClient),
		store,
		navigator,
		service.DemoSettings{Enabled: cfg.Demo.Enabled, Role: demoRole},
		logger.Component("session"),
	)
	authTransport.SetTerminator(session)

	resumeCtx, cancel := context.WithTimeout(ctx, cfg.API.Timeout)
	s := session.Resume(resumeCtx)
	cancel()
	log.Info().Str("status", string(s.Status)).Bool("demo_mode", cfg.Demo.Enabled).Msg("session resumed")

	e := api.NewRouter(api.Dependencies{
		Session:    session,
		Authorizer: service.NewAuthorizer(logger.Component("authorizer")),
		Store:      store,
		Navigator:  navigator,
		Backend:    backend,
		Transport:  authTransport,
		Checks: map[string]handler.Check{
			"credentials": ping,
			"backend":     handler.BackendCheck(plainClient, cfg.API.BaseURL),
		},
		Log: logger.Component("http"),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.API.Timeout + cfg.API.RefreshTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("backend", cfg.API.BaseURL).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore builds the credential store selected by CREDENTIAL_BACKEND and
// returns its readiness check and cleanup.
func openStore(ctx context.Context, cfg *config.Config) (ports.CredentialStore, handler.Check, func(), error) {
	log := logger.Component("credentials")
	alwaysReady := func(context.Context) error { return nil }
	noop := func() {}

	switch cfg.Credentials.Backend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory credentials; sessions will not survive a restart")
		return memory.NewCredentialStore(), alwaysReady, noop, nil

	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, nil, err
		}
		store := redisstore.NewCredentialStore(client, cfg.Credentials.Namespace)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis credentials")
		return store, store.Ping, func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		store := mongostore.NewCredentialStore(db, cfg.Credentials.Namespace)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo credentials")
		return store, store.Ping, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}, nil

	default:
		path := cfg.Credentials.File
		if path == "" {
			p, err := file.DefaultPath()
			if err != nil {
				return nil, nil, nil, err
			}
			path = p
		}
		store, err := file.NewCredentialStore(path)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("path", store.Path()).Msg("using file credentials")
		return store, alwaysReady, noop, nil
	}
}
