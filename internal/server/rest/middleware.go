package rest

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/auth"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type ctxKey string

const principalKey ctxKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UID  string
	Role models.Role
}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the caller set by the auth gate. It reports
// false for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

func (s *Server) useMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			r := c.Request()
			c.SetRequest(r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
		},
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			s.logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	}))
	if len(s.opts.CORSAllowOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.opts.CORSAllowOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if s.opts.MaxUploadSize != "" {
		s.echo.Use(middleware.BodyLimit(s.opts.MaxUploadSize))
	}
	s.echo.Use(s.authenticate)
}

// authenticate verifies a bearer ID token when one is presented. Requests
// without an Authorization header, or with a non-bearer one, continue
// unauthenticated. A token that fails verification ends the request.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			return next(c)
		}

		claims, err := s.deps.Verifier.VerifyIDToken(strings.TrimPrefix(header, common.BearerPrefix))
		if err != nil {
			return err
		}

		r := c.Request()
		p := Principal{UID: claims.Subject, Role: models.ParseRole(claims.Role)}
		c.SetRequest(r.WithContext(contextWithPrincipal(r.Context(), p)))

		return next(c)
	}
}

// require rejects callers whose role does not hold capability.
func (s *Server) require(capability auth.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFromContext(c.Request().Context())
			if !ok {
				return common.ErrForbidden
			}

			allowed, err := s.deps.Authorizer.Allowed(p.Role, capability)
			if err != nil {
				return err
			}
			if !allowed {
				return common.ErrForbidden
			}

			return next(c)
		}
	}
}
