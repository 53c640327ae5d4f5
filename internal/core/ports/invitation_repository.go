package ports

import (
	"context"
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// InvitationRepository defines persistence for email invitations.
// Tokens are a secondary lookup key; the id is primary.
type InvitationRepository interface {
	Insert(ctx context.Context, inv *domain.Invitation) error
	FindByID(ctx context.Context, id string) (*domain.Invitation, error)
	FindByToken(ctx context.Context, token string) (*domain.Invitation, error)
	ListPendingByProject(ctx context.Context, projectID string) ([]*domain.Invitation, error)
	// TransitionStatus conditionally moves the invitation from one stored
	// status to another. It reports false when the record was not in the
	// expected from status, which callers treat as losing a race.
	TransitionStatus(ctx context.Context, id string, from, to domain.InvitationStatus) (bool, error)
}

// InviteLinkRepository defines persistence for shareable invite links.
type InviteLinkRepository interface {
	Insert(ctx context.Context, link *domain.InviteLink) error
	FindByID(ctx context.Context, id string) (*domain.InviteLink, error)
	// FindByToken returns (nil, nil) when no link carries the token;
	// absence is an expected answer, not an error.
	FindByToken(ctx context.Context, token string) (*domain.InviteLink, error)
	// ListByProject returns links for the project. A non-empty createdBy
	// scopes the query server-side to links created by that user.
	ListByProject(ctx context.Context, projectID, createdBy string) ([]*domain.InviteLink, error)
	// MarkUsed conditionally claims the link: the update is filtered on
	// status == active, so exactly one concurrent acceptor can succeed.
	// Reports false when the claim did not match.
	MarkUsed(ctx context.Context, id, acceptedBy string, at time.Time) (bool, error)
	// MarkRevoked conditionally moves an active link to revoked.
	MarkRevoked(ctx context.Context, id string) (bool, error)
}
