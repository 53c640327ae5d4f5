package domain

import (
	"errors"
	"time"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrAlreadyMember      = errors.New("user is already a member of this project")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidGroup       = errors.New("invalid group")
)

// Membership is the persisted (role, group) pair for a user within a
// project. Identity key is (ProjectID, UserID); at most one membership per
// user per project.
type Membership struct {
	ProjectID    string    `json:"project_id" bson:"project_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Role         Role      `json:"role" bson:"role"`
	Group        Group     `json:"group" bson:"group,omitempty"`
	InvitedBy    string    `json:"invited_by,omitempty" bson:"invited_by,omitempty"`
	JoinedAt     time.Time `json:"joined_at" bson:"joined_at"`
	LastActiveAt time.Time `json:"last_active_at,omitempty" bson:"last_active_at,omitempty"`
}

// EffectiveGroup returns the member's group, defaulting legacy records
// that predate the group field to consulting.
func (m *Membership) EffectiveGroup() Group {
	if !m.Group.Valid() {
		return DefaultGroup
	}
	return m.Group
}

// PermissionSet is the resolved per-project view of a user's authority.
// The zero value denies everything, so an unresolved or failed lookup is
// fail-closed by construction.
type PermissionSet struct {
	Role   Role
	Group  Group
	Member bool
}

func (p PermissionSet) CanEditProject() bool     { return p.Member && p.Role.CanEditProject() }
func (p PermissionSet) CanManageMembers() bool   { return p.Member && p.Role.CanManageMembers() }
func (p PermissionSet) CanDeleteProject() bool   { return p.Member && p.Role.CanDeleteProject() }
func (p PermissionSet) CanInviteMembers() bool   { return p.Member && p.Role.CanInviteMembers() }
func (p PermissionSet) CanViewActivityLog() bool { return p.Member && p.Role.CanViewActivityLog() }

// CanChangeRole reports whether the holder may change a member currently
// holding target.
func (p PermissionSet) CanChangeRole(target Role) bool {
	return p.Member && p.Role.CanChangeRole(target)
}

// CanRemoveMember reports whether the holder (actorID) may remove targetID
// currently holding target.
func (p PermissionSet) CanRemoveMember(target Role, actorID, targetID string) bool {
	return p.Member && p.Role.CanRemoveMember(target, actorID, targetID)
}

// CanViewDocument reports whether the holder may view a document with the
// given visibility.
func (p PermissionSet) CanViewDocument(v Visibility) bool {
	return p.Member && CanViewDocument(p.Group, v, p.Role)
}

// CanSetDocumentVisibility reports whether the holder may change document
// visibility.
func (p PermissionSet) CanSetDocumentVisibility() bool {
	return p.Member && CanSetDocumentVisibility(p.Role, p.Group)
}

// CanMoveUserBetweenGroups reports whether the holder may move members
// between groups.
func (p PermissionSet) CanMoveUserBetweenGroups() bool {
	return p.Member && CanMoveUserBetweenGroups(p.Role)
}

// AssignableRoles returns the roles the holder may grant.
func (p PermissionSet) AssignableRoles() []Role {
	if !p.Member {
		return nil
	}
	return p.Role.AssignableRoles()
}
