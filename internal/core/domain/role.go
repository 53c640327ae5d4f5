package domain

// Role is the project-level authority of a member. Roles are totally
// ordered: viewer < editor < admin < owner.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// roleRank defines the hierarchy used by ordered comparisons.
var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// AllRoles lists every valid role, highest authority first.
var AllRoles = []Role{RoleOwner, RoleAdmin, RoleEditor, RoleViewer}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r sits at or above other in the hierarchy.
// Unknown roles rank below viewer.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// CanEditProject reports whether the role may modify project content.
func (r Role) CanEditProject() bool {
	return r.AtLeast(RoleEditor)
}

// CanManageMembers reports whether the role may change other members.
func (r Role) CanManageMembers() bool {
	return r.AtLeast(RoleAdmin)
}

// CanDeleteProject is restricted to the owner exactly; admins cannot
// delete a project even though they outrank editors.
func (r Role) CanDeleteProject() bool {
	return r == RoleOwner
}

// CanInviteMembers reports whether the role may create invitations and
// invite links.
func (r Role) CanInviteMembers() bool {
	return r.AtLeast(RoleAdmin)
}

// CanViewActivityLog is true for every valid role.
func (r Role) CanViewActivityLog() bool {
	return r.Valid()
}

// CanChangeRole reports whether an actor holding r may change the role of
// a member currently holding target. Owners may change anyone; admins may
// change editors and viewers only. The target role is the one held before
// the change. Which new roles the actor may assign is a separate question;
// see AssignableRoles.
func (r Role) CanChangeRole(target Role) bool {
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin:
		return target != RoleOwner && target != RoleAdmin
	default:
		return false
	}
}

// CanRemoveMember reports whether an actor holding r may remove a member
// currently holding target. Self-removal is denied for every role.
func (r Role) CanRemoveMember(target Role, actorID, targetID string) bool {
	if actorID == targetID {
		return false
	}
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin:
		return target != RoleOwner && target != RoleAdmin
	default:
		return false
	}
}

// AssignableRoles returns the roles an actor holding r may grant.
// Admins cannot grant admin or owner.
func (r Role) AssignableRoles() []Role {
	switch r {
	case RoleOwner:
		return []Role{RoleOwner, RoleAdmin, RoleEditor, RoleViewer}
	case RoleAdmin:
		return []Role{RoleEditor, RoleViewer}
	default:
		return nil
	}
}

// CanAssign reports whether newRole is within the actor's assignment ceiling.
func (r Role) CanAssign(newRole Role) bool {
	for _, a := range r.AssignableRoles() {
		if a == newRole {
			return true
		}
	}
	return false
}

// Label returns the human-readable display name for the role.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleAdmin:
		return "Admin"
	case RoleEditor:
		return "Editor"
	case RoleViewer:
		return "Viewer"
	default:
		return "Unknown"
	}
}

// ColorTag returns the UI color associated with the role. Cosmetic only,
// not a security boundary.
func (r Role) ColorTag() string {
	switch r {
	case RoleOwner:
		return "teal"
	case RoleAdmin:
		return "yellow"
	case RoleEditor:
		return "blue"
	case RoleViewer:
		return "gray"
	default:
		return "gray"
	}
}
