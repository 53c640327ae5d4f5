package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// InvitationHandler handles HTTP requests for email invitations.
//
// The service trusts its callers, so every authority check for creation
// and cancellation lives here, at the API boundary.
type InvitationHandler struct {
	service ports.InvitationService
}

func NewInvitationHandler(service ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

// Create issues an email invitation for a project.
//
// @Summary      Create an email invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string                   true  "Project ID"
// @Param        body        body      createInvitationRequest  true  "Invitation details"
// @Success      201         {object}  invitationResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/invitations [post]
func (h *InvitationHandler) Create(c echo.Context) error {
	var req createInvitationRequest
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
	// The assignment ceiling is enforced here, not in the service: an
	// admin cannot hand out owner or admin roles through an invitation.
	if !actor.Perms.Role.CanAssign(role) {
		return domain.ErrForbidden
	}
	// Inviting into the consulting group admits someone to internal-only
	// documents, so it takes the same authority as moving a member there.
	if group == domain.GroupConsulting && !actor.Perms.CanMoveUserBetweenGroups() {
		return domain.ErrForbidden
	}

	inv, err := h.service.Create(c.Request().Context(), ports.CreateInvitationInput{
		ProjectID: c.Param("project_id"),
		Email:     req.Email,
		Role:      role,
		Group:     group,
		InvitedBy: actor.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toInvitationResponse(inv, time.Now().UTC(), true))
}

// List returns the pending invitations for a project.
//
// @Summary      List pending invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  listInvitationsResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/invitations [get]
func (h *InvitationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if !actor.Perms.CanInviteMembers() {
		return domain.ErrForbidden
	}

	invs, err := h.service.ListProject(c.Request().Context(), c.Param("project_id"))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	data := make([]invitationResponse, 0, len(invs))
	for _, inv := range invs {
		data = append(data, toInvitationResponse(inv, now, false))
	}

	return c.JSON(http.StatusOK, listInvitationsResponse{Data: data, Total: len(data)})
}

// Cancel withdraws a pending invitation.
//
// @Summary      Cancel a pending invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path  string  true  "Project ID"
// @Param        id          path  string  true  "Invitation ID"
// @Success      204         "invitation cancelled"
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Router       /v1/projects/{project_id}/invitations/{id} [delete]
func (h *InvitationHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if !actor.Perms.CanInviteMembers() {
		return domain.ErrForbidden
	}

	if err := h.service.Cancel(c.Request().Context(), c.Param("project_id"), c.Param("id"), actor.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Accept redeems an invitation token and joins the caller to the project.
// Mounted outside the project-permission middleware: the caller is not a
// member yet.
//
// @Summary      Accept an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        token  path      string  true  "Invitation token"
// @Success      200    {object}  acceptResponse
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Failure      410    {object}  errorResponse
// @Router       /v1/invitations/{token}/accept [post]
func (h *InvitationHandler) Accept(c echo.Context) error {
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

// Decline marks an invitation as declined by its recipient.
//
// @Summary      Decline an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        token  path  string  true  "Invitation token"
// @Success      204    "invitation declined"
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Failure      410    {object}  errorResponse
// @Router       /v1/invitations/{token}/decline [post]
func (h *InvitationHandler) Decline(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Decline(c.Request().Context(), c.Param("token"), userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
