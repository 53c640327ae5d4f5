package ports

import (
	"context"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// Actor identifies the authenticated member performing a mutation, with
// permissions already resolved by the facade.
type Actor struct {
	UserID string
	Perms  domain.PermissionSet
}

// ChangeRoleInput carries the parameters for a role change.
type ChangeRoleInput struct {
	ProjectID    string
	TargetUserID string
	NewRole      domain.Role
}

// ChangeGroupInput carries the parameters for moving a member between
// groups.
type ChangeGroupInput struct {
	ProjectID    string
	TargetUserID string
	NewGroup     domain.Group
}

// MemberService defines the membership mutation and listing use cases.
type MemberService interface {
	List(ctx context.Context, projectID string) ([]*domain.Membership, error)
	ChangeRole(ctx context.Context, actor Actor, input ChangeRoleInput) error
	ChangeGroup(ctx context.Context, actor Actor, input ChangeGroupInput) error
	Remove(ctx context.Context, actor Actor, projectID, targetUserID string) error
	// BootstrapOwner creates the owner auto-membership at project
	// creation. It is the only path that writes an owner role without an
	// inviter.
	BootstrapOwner(ctx context.Context, projectID, userID string) error
}

// PermissionResolver resolves the per-project permission set for a user.
// A failed or missing lookup yields the zero PermissionSet, which denies
// everything.
type PermissionResolver interface {
	Resolve(ctx context.Context, projectID, userID string) (domain.PermissionSet, error)
}
