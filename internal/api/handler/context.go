package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/api/middleware"
	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// ctxUserID extracts the account id injected by the Auth middleware and
// fast-fails before any service call: presence proves the middleware ran.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxActor bundles the account id with the permission set resolved by the
// Project middleware. The zero permission set denies everything, so a
// handler reached without the middleware still fails closed.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, err := ctxUserID(c)
	if err != nil {
		return ports.Actor{}, err
	}
	perms, _ := c.Get(middleware.PermsKey).(domain.PermissionSet)
	return ports.Actor{UserID: userID, Perms: perms}, nil
}
