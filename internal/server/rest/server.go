// Package rest exposes the PulseCity HTTP API on top of echo.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/auth"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/dmitrijs2005/pulsecity/internal/server/services"
	"github.com/labstack/echo/v4"
)

type Accounts interface {
	Register(ctx context.Context, account models.Account) (time.Time, error)
	Profile(ctx context.Context, uid string) (*models.Account, error)
	SignIn(ctx context.Context, email, password string) (string, time.Duration, error)
}

type Posts interface {
	Create(ctx context.Context, in services.PostInput) (*models.Post, error)
}

type Feed interface {
	FetchFused(ctx context.Context, location string) []models.NewsItem
}

type Reddit interface {
	FetchNewPosts(ctx context.Context) (json.RawMessage, error)
}

type TokenVerifier interface {
	VerifyIDToken(token string) (*auth.IDTokenClaims, error)
}

type Authorizer interface {
	Allowed(role models.Role, c auth.Capability) (bool, error)
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Accounts   Accounts
	Posts      Posts
	Feed       Feed
	Reddit     Reddit
	Verifier   TokenVerifier
	Authorizer Authorizer
}

// Options tune the transport.
type Options struct {
	DefaultLocation  string
	MaxUploadSize    string
	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration
}

type Server struct {
	address string
	echo    *echo.Echo
	deps    Deps
	opts    Options
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, deps Deps, opts Options) *Server {
	s := &Server{
		address: address,
		deps:    deps,
		opts:    opts,
		logger:  l.With("module", "rest_server"),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	s.echo = e

	s.useMiddleware()
	s.registerRoutes()

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
