package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/tuiter-stars/backend/internal/middleware"
	"github.com/anonto42/tuiter-stars/backend/internal/repositories"
	"github.com/anonto42/tuiter-stars/backend/internal/session"
	applog "github.com/anonto42/tuiter-stars/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

// Returned with 503 when "me" is used without a session
const (
	LoginRequiredMessage         = "User needs to be logged in to access starred messages!"
	MessagesLoginRequiredMessage = "User needs to be logged in to access messages!"
)

// resolveUserParam resolves the named path parameter, substituting the
// session user for "me". loginMessage is the 503 text when there is no session.
func resolveUserParam(c echo.Context, name, loginMessage string) (string, error) {
	userID, ok := session.Resolve(c.Param(name), middleware.CurrentProfile(c)).UserID()
	if !ok {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, loginMessage)
	}
	return userID, nil
}

// storeError maps a repository failure to an HTTP error. Unknown failures
// are logged and reported as a generic 500.
func storeError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	l := applog.Ctx(c.Request().Context())
	l.Error().Err(err).Msg("failed to " + action)
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to "+action)
}
