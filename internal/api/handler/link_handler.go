package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// LinkHandler handles HTTP requests for single-use invite links.
//
// Like invitations, authority checks live here: the service trusts its
// caller for everything except the single-use claim itself.
type LinkHandler struct {
	service ports.InviteLinkService
}

func NewLinkHandler(service ports.InviteLinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// Generate mints a new single-use invite link.
//
// @Summary      Generate an invite link
// @Tags         links
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string               true  "Project ID"
// @Param        body        body      generateLinkRequest  true  "Link details"
// @Success      201         {object}  linkResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/links [post]
func (h *LinkHandler) Generate(c echo.Context) error {
	var req generateLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	role := domain.Role(req.Role)
	group := domain.Group(req.Group)

	if !actor.Perms.CanInviteMembers() {
		return domain.ErrForbidden
	}
	// Same ceiling as email invitations: the minted role must be one the
	// creator could assign directly.
	if !actor.Perms.Role.CanAssign(role) {
		return domain.ErrForbidden
	}
	if group == domain.GroupConsulting && !actor.Perms.CanMoveUserBetweenGroups() {
		return domain.ErrForbidden
	}

	link, err := h.service.Generate(c.Request().Context(), ports.GenerateLinkInput{
		ProjectID: c.Param("project_id"),
		Role:      role,
		Group:     group,
		CreatedBy: actor.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toLinkResponse(link, time.Now().UTC(), true))
}

// List returns the invite links visible to the caller. Owners and admins
// see every link for the project; everyone else only links they created.
//
// @Summary      List invite links
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  listLinksResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/links [get]
func (h *LinkHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	links, err := h.service.ListProject(c.Request().Context(), c.Param("project_id"), actor.UserID, actor.Perms.Role)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	data := make([]linkResponse, 0, len(links))
	for _, l := range links {
		data = append(data, toLinkResponse(l, now, false))
	}

	return c.JSON(http.StatusOK, listLinksResponse{Data: data, Total: len(data)})
}

// Preview shows what a link token offers without redeeming it. Mounted
// outside the project-permission middleware.
//
// @Summary      Preview an invite link
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        token  path      string  true  "Link token"
// @Success      200    {object}  linkPreviewResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/links/{token} [get]
func (h *LinkHandler) Preview(c echo.Context) error {
	link, err := h.service.GetByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	if link == nil {
		return domain.ErrLinkNotFound
	}

	return c.JSON(http.StatusOK, linkPreviewResponse{
		ProjectID: link.ProjectID,
		Role:      string(link.Role),
		RoleLabel: link.Role.Label(),
		Group:     string(link.Group),
		Status:    string(link.EffectiveStatus(time.Now().UTC())),
	})
}

// Accept redeems a link token and joins the caller to the project.
// Mounted outside the project-permission middleware: the caller is not a
// member yet.
//
// @Summary      Accept an invite link
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        token  path      string  true  "Link token"
// @Success      200    {object}  acceptResponse
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Failure      410    {object}  errorResponse
// @Router       /v1/links/{token}/accept [post]
func (h *LinkHandler) Accept(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	membership, err := h.service.Accept(c.Request().Context(), c.Param("token"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, acceptResponse{Membership: toMemberResponse(membership)})
}

// Revoke deactivates a link. Allowed for owners, admins, and the link's
// creator.
//
// @Summary      Revoke an invite link
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path  string  true  "Project ID"
// @Param        id          path  string  true  "Link ID"
// @Success      204         "link revoked"
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Router       /v1/projects/{project_id}/links/{id} [delete]
func (h *LinkHandler) Revoke(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	// Creator revocation is checked in the service against the stored
	// record, so no short-circuit here beyond project membership.
	if err := h.service.Revoke(c.Request().Context(), actor, c.Param("project_id"), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
