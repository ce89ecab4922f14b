// Package app wires the session service together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/oakhall/depot/internal/session/http"
	"github.com/oakhall/depot/internal/session/service"
	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/internal/session/store/drivers/memory"
	"github.com/oakhall/depot/internal/session/store/drivers/redis"
	"github.com/oakhall/depot/pkg/envelope"
	"github.com/oakhall/depot/pkg/jwtx"
	"github.com/oakhall/depot/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the session service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	st           store.Store
	tokenService *service.TokenService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "session-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.st.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("session service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down session service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.st.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("session service stopped")
	return nil
}

// initStore connects the TTL store. Without a Redis address the in-memory
// driver is used; sessions then die with the process, acceptable only for
// local development.
func (app *Application) initStore() error {
	if app.cfg.RedisAddr == "" {
		app.logger.Warn("no AUTH_REDIS_ADDR configured, using in-memory store (dev only)")
		app.st = memory.NewStore()
		return nil
	}

	st, err := redis.NewStore(redis.Config{
		Addr:      app.cfg.RedisAddr,
		Password:  app.cfg.RedisPassword,
		DB:        app.cfg.RedisDB,
		OpTimeout: app.cfg.StoreTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect session store: %w", err)
	}
	app.st = st

	app.logger.Info("session store connected", "addr", app.cfg.RedisAddr)
	return nil
}

// initServices builds the token service and its collaborators.
func (app *Application) initServices() error {
	cipher, err := envelope.New(app.cfg.SigningSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize envelope cipher: %w", err)
	}

	codec, err := jwtx.NewCodec(app.cfg.SigningSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize claims codec: %w", err)
	}

	var roles service.RoleSource = noRoles{}
	if app.cfg.RolesURL != "" {
		roles = newHTTPRoleSource(app.cfg.RolesURL)
	} else {
		app.logger.Warn("no AUTH_ROLES_URL configured, rotated tokens carry no authorities")
	}

	app.tokenService = &service.TokenService{
		Store:     app.st,
		Codec:     codec,
		Cipher:    cipher,
		Roles:     roles,
		AccessTTL: app.cfg.AccessTTL,
	}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.st, app.tokenService, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
