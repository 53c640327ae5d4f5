package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// ActivityHandler handles HTTP requests for the project activity log.
type ActivityHandler struct {
	query ports.ActivityQuery
}

func NewActivityHandler(query ports.ActivityQuery) *ActivityHandler {
	return &ActivityHandler{query: query}
}

// Log returns the project activity log, newest first. Without filters it
// pages on a timestamp cursor; with a user_id, action, or from/to filter
// it returns a single bounded slice instead.
//
// @Summary      Get the project activity log
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true   "Project ID"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Param        cursor      query     string  false  "Timestamp cursor from a previous page"
// @Param        user_id     query     string  false  "Filter by acting user"
// @Param        action      query     string  false  "Filter by action (e.g. member.role_changed)"
// @Param        from        query     string  false  "Filter start, RFC 3339"
// @Param        to          query     string  false  "Filter end, RFC 3339"
// @Param        group       query     string  false  "Narrow results to one group context"
// @Success      200         {object}  activityPageResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/activity [get]
func (h *ActivityHandler) Log(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if !actor.Perms.CanViewActivityLog() {
		return domain.ErrForbidden
	}

	projectID := c.Param("project_id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	switch {
	case c.QueryParam("user_id") != "":
		entries, err := h.query.FilterByUser(c.Request().Context(), projectID, c.QueryParam("user_id"), limit)
		if err != nil {
			return err
		}
		return h.respondFiltered(c, entries)

	case c.QueryParam("action") != "":
		entries, err := h.query.FilterByAction(c.Request().Context(), projectID, c.QueryParam("action"), limit)
		if err != nil {
			return err
		}
		return h.respondFiltered(c, entries)

	case c.QueryParam("from") != "" || c.QueryParam("to") != "":
		from, to, err := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		entries, err := h.query.FilterByDateRange(c.Request().Context(), projectID, from, to, limit)
		if err != nil {
			return err
		}
		return h.respondFiltered(c, entries)
	}

	page, err := h.query.ProjectLog(c.Request().Context(), projectID, limit, c.QueryParam("cursor"))
	if err != nil {
		return err
	}

	entries := page.Entries
	if g := c.QueryParam("group"); g != "" {
		entries = ports.FilterByGroup(entries, domain.Group(g))
	}

	return c.JSON(http.StatusOK, activityPageResponse{
		Data:       toActivityEntryResponses(entries),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// respondFiltered renders a filtered, non-paginated slice, applying the
// optional group narrowing on top.
func (h *ActivityHandler) respondFiltered(c echo.Context, entries []*domain.ActivityEntry) error {
	if g := c.QueryParam("group"); g != "" {
		entries = ports.FilterByGroup(entries, domain.Group(g))
	}
	data := toActivityEntryResponses(entries)
	return c.JSON(http.StatusOK, activityListResponse{Data: data, Total: len(data)})
}

func parseDateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromRaw != "" {
		if from, err = time.Parse(time.RFC3339, fromRaw); err != nil {
			return from, to, err
		}
	}
	if toRaw != "" {
		if to, err = time.Parse(time.RFC3339, toRaw); err != nil {
			return from, to, err
		}
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	return from, to, nil
}
