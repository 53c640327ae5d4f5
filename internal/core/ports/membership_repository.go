package ports

import (
	"context"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// MembershipRepository defines persistence operations for project
// memberships. The (projectID, userID) pair is the identity key.
type MembershipRepository interface {
	Get(ctx context.Context, projectID, userID string) (*domain.Membership, error)
	// GetRole and GetGroup are narrow projections used by the permission
	// facade, which issues them concurrently.
	GetRole(ctx context.Context, projectID, userID string) (domain.Role, error)
	GetGroup(ctx context.Context, projectID, userID string) (domain.Group, error)
	// Put inserts or replaces the membership for (ProjectID, UserID).
	Put(ctx context.Context, m *domain.Membership) error
	// ClaimProject inserts m only when the project has no memberships at
	// all, as a single conditional write. Returns false without writing
	// when any membership exists.
	ClaimProject(ctx context.Context, m *domain.Membership) (bool, error)
	UpdateRole(ctx context.Context, projectID, userID string, role domain.Role) error
	UpdateGroup(ctx context.Context, projectID, userID string, group domain.Group) error
	Delete(ctx context.Context, projectID, userID string) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
}
