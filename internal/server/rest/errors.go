package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/labstack/echo/v4"
)

// Result is the body of every error response.
type Result struct {
	Message string `json:"message"`
}

// statusFor maps an error onto a status code and the message shown to the
// caller. Only validation errors expose their detail.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	case errors.Is(err, common.ErrAccountAlreadyExists):
		return http.StatusConflict, common.ErrAccountAlreadyExists.Error()
	case errors.Is(err, common.ErrProfileMissing):
		return http.StatusBadRequest, common.ErrProfileMissing.Error()
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, common.ErrTokenExpired.Error()
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, common.ErrForbidden.Error()
	case errors.Is(err, common.ErrUpstreamAuth), errors.Is(err, common.ErrUpstreamDependency):
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := statusFor(err)

	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "status", status, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, Result{Message: msg})
	}
	if err != nil {
		s.logger.Error(ctx, "write error response", "error", err)
	}
}
