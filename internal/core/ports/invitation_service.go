package ports

import (
	"context"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// CreateInvitationInput carries all data needed to create an email
// invitation. Group-policy checks (inviting into the consulting group)
// are the caller's responsibility; the service trusts its caller.
type CreateInvitationInput struct {
	ProjectID string
	Email     string
	Role      domain.Role
	Group     domain.Group
	InvitedBy string
}

// InvitationService defines the email-invitation lifecycle.
type InvitationService interface {
	Create(ctx context.Context, input CreateInvitationInput) (*domain.Invitation, error)
	// Accept re-validates pending status and expiry at call time, then
	// creates or updates the membership with the invitation's role and
	// group.
	Accept(ctx context.Context, token, userID string) (*domain.Membership, error)
	// Cancel only acts on invitations belonging to projectID; an id from
	// another project reads as not found.
	Cancel(ctx context.Context, projectID, id, cancelledBy string) error
	Decline(ctx context.Context, token, userID string) error
	ListProject(ctx context.Context, projectID string) ([]*domain.Invitation, error)
}

// GenerateLinkInput carries all data needed to generate a shareable link.
// The service does not gate on the creator's role; callers enforce
// CanInviteMembers before calling.
type GenerateLinkInput struct {
	ProjectID string
	Role      domain.Role
	Group     domain.Group
	CreatedBy string
}

// InviteLinkService defines the single-use shareable-link lifecycle.
type InviteLinkService interface {
	Generate(ctx context.Context, input GenerateLinkInput) (*domain.InviteLink, error)
	// GetByToken returns (nil, nil) when the token is unknown.
	GetByToken(ctx context.Context, token string) (*domain.InviteLink, error)
	// ListProject scopes results by the viewer's role: owners and admins
	// see every link, everyone else only links they created.
	ListProject(ctx context.Context, projectID, userID string, role domain.Role) ([]*domain.InviteLink, error)
	Accept(ctx context.Context, token, userID string) (*domain.Membership, error)
	// Revoke is allowed for owners, admins, and the link's creator. It
	// only acts on links belonging to projectID; an id from another
	// project reads as not found.
	Revoke(ctx context.Context, actor Actor, projectID, id string) error
}
