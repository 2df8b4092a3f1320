// Package server initializes and runs the gophauth server: it builds the key
// material, opens the account store, runs migrations and serves the HTTP API
// until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpserver"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpserver.HTTPServer
}

// NewApp validates cfg and builds every component. Logs go to w as JSON.
func NewApp(ctx context.Context, cfg *config.Config, w io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(w, cfg.LogLevel)

	cipher, err := newCipher(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	settings := auth.TokenSettings{
		Secret:   []byte(cfg.SecretKey),
		Validity: cfg.TokenValidityDuration,
	}
	issuer, err := auth.NewTokenIssuer(settings)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	validator, err := auth.NewTokenValidator(settings, nil)
	if err != nil {
		return nil, fmt.Errorf("token validator: %w", err)
	}

	repos, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, err
	}
	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, accounts are kept in memory")
	}

	var m *metrics.Registry
	if cfg.MetricsEnabled {
		m = metrics.NewRegistry()
	}

	accounts := services.NewAccountService(repos.Accounts(), cipher, issuer, logger.With("module", "accounts"))

	srv, err := httpserver.NewHTTPServer(cfg.EndpointAddrHTTP, logger, accounts, validator, m)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{config: cfg, logger: logger, repos: repos, server: srv}, nil
}

func newCipher(ctx context.Context, cfg *config.Config, logger logging.Logger) (*cryptox.PasswordCipher, error) {
	var key []byte
	if cfg.CipherPassphrase != "" {
		key = cryptox.DeriveKey([]byte(cfg.CipherPassphrase), []byte(cfg.CipherSalt))
	} else {
		key = cryptox.GenerateKey()
		logger.Warn(ctx, "password cipher key is random; stored passwords cannot be recovered after a restart")
	}

	c, err := cryptox.NewPasswordCipher(key)
	if err != nil {
		return nil, fmt.Errorf("password cipher: %w", err)
	}
	return c, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
