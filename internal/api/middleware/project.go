package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/core/ports"
)

// PermsKey is the context key under which Project stores the resolved
// permission set.
const PermsKey = "perms"

// Project resolves the authenticated user's permissions for the
// :project_id route param and stores them in context. Resolution failures
// and non-membership both leave the request fail-closed: handlers read a
// zero permission set that denies everything, and non-members are
// rejected here with 403.
//
// Accept endpoints (invitations, links) must be mounted outside this
// middleware, since their callers are not members yet.
func Project(resolver ports.PermissionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			projectID := c.Param("project_id")
			if projectID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing project id")
			}
			userID, _ := c.Get("user_id").(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			perms, err := resolver.Resolve(c.Request().Context(), projectID, userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "permission resolution failed")
			}
			if !perms.Member {
				return echo.NewHTTPError(http.StatusForbidden, "not a member of this project")
			}

			c.Set(PermsKey, perms)
			return next(c)
		}
	}
}
