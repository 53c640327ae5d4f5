package handler

import (
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// --- Request / Response types ---

type generateLinkRequest struct {
	Role  string `json:"role"  validate:"required,oneof=owner admin editor viewer"`
	Group string `json:"group" validate:"required,oneof=consulting client"`
}

// linkResponse exposes a shareable link with its effective status.
type linkResponse struct {
	ID         string     `json:"id"`
	Token      string     `json:"token,omitempty"`
	ProjectID  string     `json:"project_id"`
	Role       string     `json:"role"`
	Group      string     `json:"group"`
	CreatedBy  string     `json:"created_by"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedBy string     `json:"accepted_by,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// linkPreviewResponse is the unauthenticated-friendly view shown before
// the caller decides to join. It never includes the token.
type linkPreviewResponse struct {
	ProjectID string `json:"project_id"`
	Role      string `json:"role"`
	RoleLabel string `json:"role_label"`
	Group     string `json:"group"`
	Status    string `json:"status"`
}

type listLinksResponse struct {
	Data  []linkResponse `json:"data"`
	Total int            `json:"total"`
}

func toLinkResponse(l *domain.InviteLink, now time.Time, withToken bool) linkResponse {
	resp := linkResponse{
		ID:         l.ID,
		ProjectID:  l.ProjectID,
		Role:       string(l.Role),
		Group:      string(l.Group),
		CreatedBy:  l.CreatedBy,
		Status:     string(l.EffectiveStatus(now)),
		CreatedAt:  l.CreatedAt,
		ExpiresAt:  l.ExpiresAt,
		AcceptedBy: l.AcceptedBy,
		AcceptedAt: l.AcceptedAt,
	}
	if withToken {
		resp.Token = l.Token
	}
	return resp
}
