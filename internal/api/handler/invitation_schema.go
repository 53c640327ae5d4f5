package handler

import (
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// --- Request / Response types ---

type createInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=owner admin editor viewer"`
	Group string `json:"group" validate:"required,oneof=consulting client"`
}

// invitationResponse exposes the stored invitation with its effective
// status. A pending record past its expiry reads as "expired" even though
// storage still says "pending".
type invitationResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	ProjectID string    `json:"project_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Group     string    `json:"group"`
	InvitedBy string    `json:"invited_by"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type listInvitationsResponse struct {
	Data  []invitationResponse `json:"data"`
	Total int                  `json:"total"`
}

type acceptResponse struct {
	Membership memberResponse `json:"membership"`
}

// toInvitationResponse maps an invitation for a reader at the given
// instant. The token is included only for the creator's immediate use;
// list views pass withToken=false.
func toInvitationResponse(inv *domain.Invitation, now time.Time, withToken bool) invitationResponse {
	resp := invitationResponse{
		ID:        inv.ID,
		ProjectID: inv.ProjectID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Group:     string(inv.Group),
		InvitedBy: inv.InvitedBy,
		Status:    string(inv.EffectiveStatus(now)),
		CreatedAt: inv.CreatedAt,
		ExpiresAt: inv.ExpiresAt,
	}
	if withToken {
		resp.Token = inv.Token
	}
	return resp
}
