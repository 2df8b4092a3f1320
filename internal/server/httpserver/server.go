// Package httpserver is the HTTP surface of gophauth: the gin engine, its
// middleware chain (including the bearer token filter) and the sign-up and
// login handlers.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// AccountFlows is the registration and login logic behind the handlers.
type AccountFlows interface {
	Register(ctx context.Context, c *models.Candidate) (*models.Account, error)
	Login(ctx context.Context, p *auth.Principal) (*services.LoginResult, error)
}

// RequestValidator decides what a request's Authorization header is worth.
type RequestValidator interface {
	ValidateRequest(r *http.Request) auth.Outcome
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	accounts  AccountFlows
	validator RequestValidator
	metrics   *metrics.Registry
	engine    *gin.Engine
	now       func() time.Time
}

// NewHTTPServer builds the router. A nil metrics registry disables /metrics.
func NewHTTPServer(address string, l logging.Logger, accounts AccountFlows, v RequestValidator, m *metrics.Registry) (*HTTPServer, error) {
	if accounts == nil || v == nil {
		return nil, errors.New("httpserver: accounts and validator are required")
	}
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	s := &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		accounts:  accounts,
		validator: v,
		metrics:   m,
		now:       time.Now,
	}
	s.engine = s.routes()

	return s, nil
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestID(), s.requestLogger(), s.recovery(), s.tokenFilter())

	r.GET("/ping", s.ping)
	r.POST(common.SignUpPath, s.signUp)
	r.GET(common.LoginPath, s.login)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		s.abortWithError(c, http.StatusNotFound, common.CodeInputRequest, "route not found")
	})

	return r
}

// Handler exposes the router, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
