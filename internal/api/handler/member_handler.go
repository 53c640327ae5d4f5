package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// MemberHandler handles HTTP requests for the project member roster.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// Bootstrap claims ownership of a freshly created project. Mounted
// outside the project-permission middleware: the caller is not a member
// yet, and the service only allows claiming a project with no members.
//
// @Summary      Claim ownership of a new project
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path  string  true  "Project ID"
// @Success      204         "owner membership created"
// @Failure      409         {object}  errorResponse
// @Router       /v1/projects/{project_id}/owner [post]
func (h *MemberHandler) Bootstrap(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.BootstrapOwner(c.Request().Context(), c.Param("project_id"), userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// List returns the full member roster for a project.
//
// @Summary      List project members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  listMembersResponse
// @Failure      403         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /v1/projects/{project_id}/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	projectID := c.Param("project_id")

	members, err := h.service.List(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	data := make([]memberResponse, 0, len(members))
	for _, m := range members {
		data = append(data, toMemberResponse(m))
	}

	return c.JSON(http.StatusOK, listMembersResponse{Data: data, Total: len(data)})
}

// Permissions returns the caller's resolved permission set for a project.
//
// @Summary      Get own permissions for a project
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  permissionsResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/permissions [get]
func (h *MemberHandler) Permissions(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPermissionsResponse(actor.Perms))
}

// ChangeRole changes a member's role.
//
// @Summary      Change a member's role
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string             true  "Project ID"
// @Param        user_id     path      string             true  "Target user ID"
// @Param        body        body      changeRoleRequest  true  "New role"
// @Success      204         "role updated"
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/projects/{project_id}/members/{user_id}/role [put]
func (h *MemberHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
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

	err = h.service.ChangeRole(c.Request().Context(), actor, ports.ChangeRoleInput{
		ProjectID:    c.Param("project_id"),
		TargetUserID: c.Param("user_id"),
		NewRole:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ChangeGroup moves a member between the consulting and client groups.
//
// @Summary      Change a member's group
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string              true  "Project ID"
// @Param        user_id     path      string              true  "Target user ID"
// @Param        body        body      changeGroupRequest  true  "New group"
// @Success      204         "group updated"
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/projects/{project_id}/members/{user_id}/group [put]
func (h *MemberHandler) ChangeGroup(c echo.Context) error {
	var req changeGroupRequest
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

	err = h.service.ChangeGroup(c.Request().Context(), actor, ports.ChangeGroupInput{
		ProjectID:    c.Param("project_id"),
		TargetUserID: c.Param("user_id"),
		NewGroup:     domain.Group(req.Group),
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Remove removes a member from a project.
//
// @Summary      Remove a project member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path  string  true  "Project ID"
// @Param        user_id     path  string  true  "Target user ID"
// @Success      204         "member removed"
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/projects/{project_id}/members/{user_id} [delete]
func (h *MemberHandler) Remove(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	err = h.service.Remove(c.Request().Context(), actor, c.Param("project_id"), c.Param("user_id"))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
