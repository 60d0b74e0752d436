package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindInvalidInput:     http.StatusBadRequest,
	apperrors.KindInvalidOperation: http.StatusBadRequest,
	apperrors.KindConflict:         http.StatusBadRequest,
	apperrors.KindUnauthenticated:  http.StatusUnauthorized,
	apperrors.KindForbidden:        http.StatusForbidden,
	apperrors.KindNotFound:         http.StatusNotFound,
	apperrors.KindRateLimited:      http.StatusTooManyRequests,
	apperrors.KindUpstreamFailure:  http.StatusBadGateway,
	apperrors.KindInternal:         http.StatusInternalServerError,
}

// httpError maps a service error to an echo.HTTPError. The cause stays internal to the server.
func httpError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	status, ok := statusByKind[apperrors.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	return echo.NewHTTPError(status, apperrors.PublicMessage(err)).SetInternal(err)
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// bindAndValidate decodes the body into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return httpError(err)
	}
	if err := c.Validate(req); err != nil {
		return httpError(err)
	}
	return nil
}

func currentUserID(c echo.Context) (string, error) {
	id := middleware.UserID(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}
