package handler

import (
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner admin editor viewer"`
}

type changeGroupRequest struct {
	Group string `json:"group" validate:"required,oneof=consulting client"`
}

// memberResponse carries the display fields the member roster needs,
// including the badge label and color tag derived from the role.
type memberResponse struct {
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	RoleLabel    string    `json:"role_label"`
	ColorTag     string    `json:"color_tag"`
	Group        string    `json:"group"`
	InvitedBy    string    `json:"invited_by,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
	LastActiveAt time.Time `json:"last_active_at,omitempty"`
}

type listMembersResponse struct {
	Data  []memberResponse `json:"data"`
	Total int              `json:"total"`
}

// permissionsResponse is the caller's resolved authority for one project.
// The front end drives its menus off this instead of re-deriving policy.
type permissionsResponse struct {
	Role              string   `json:"role"`
	Group             string   `json:"group"`
	AssignableRoles   []string `json:"assignable_roles"`
	CanEditProject    bool     `json:"can_edit_project"`
	CanManageMembers  bool     `json:"can_manage_members"`
	CanDeleteProject  bool     `json:"can_delete_project"`
	CanInviteMembers  bool     `json:"can_invite_members"`
	CanViewActivity   bool     `json:"can_view_activity_log"`
	CanMoveUserGroups bool     `json:"can_move_user_between_groups"`
}

func toMemberResponse(m *domain.Membership) memberResponse {
	return memberResponse{
		UserID:       m.UserID,
		Role:         string(m.Role),
		RoleLabel:    m.Role.Label(),
		ColorTag:     m.Role.ColorTag(),
		Group:        string(m.EffectiveGroup()),
		InvitedBy:    m.InvitedBy,
		JoinedAt:     m.JoinedAt,
		LastActiveAt: m.LastActiveAt,
	}
}

func toPermissionsResponse(p domain.PermissionSet) permissionsResponse {
	assignable := p.AssignableRoles()
	roles := make([]string, 0, len(assignable))
	for _, r := range assignable {
		roles = append(roles, string(r))
	}
	return permissionsResponse{
		Role:              string(p.Role),
		Group:             string(p.Group),
		AssignableRoles:   roles,
		CanEditProject:    p.CanEditProject(),
		CanManageMembers:  p.CanManageMembers(),
		CanDeleteProject:  p.CanDeleteProject(),
		CanInviteMembers:  p.CanInviteMembers(),
		CanViewActivity:   p.CanViewActivityLog(),
		CanMoveUserGroups: p.CanMoveUserBetweenGroups(),
	}
}
