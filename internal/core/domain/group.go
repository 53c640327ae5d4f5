package domain

// Group is the fixed two-way partition of project membership. Every member
// belongs to exactly one group; legacy records lacking the field default to
// consulting.
type Group string

const (
	GroupConsulting Group = "consulting"
	GroupClient     Group = "client"
)

// DefaultGroup is applied to membership records persisted before the group
// field existed.
const DefaultGroup = GroupConsulting

// Valid reports whether g is one of the two known groups.
func (g Group) Valid() bool {
	return g == GroupConsulting || g == GroupClient
}

// Visibility controls which group(s) can see a document.
type Visibility string

const (
	VisibilityConsultingOnly Visibility = "consulting_only"
	VisibilityClientOnly     Visibility = "client_only"
	VisibilityBoth           Visibility = "both"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityConsultingOnly, VisibilityClientOnly, VisibilityBoth:
		return true
	}
	return false
}

// defaultVisibility is the single source of truth for upload defaults:
// consulting uploads are private to consulting, client uploads are shared.
var defaultVisibility = map[Group]Visibility{
	GroupConsulting: VisibilityConsultingOnly,
	GroupClient:     VisibilityBoth,
}

// fallbackVisibility is the fail-open default for unknown or missing
// uploader groups.
const fallbackVisibility = VisibilityBoth

// DefaultDocumentVisibility returns the visibility a new document gets
// based on the uploader's group.
func DefaultDocumentVisibility(g Group) Visibility {
	if v, ok := defaultVisibility[g]; ok {
		return v
	}
	return fallbackVisibility
}

// CanViewDocument reports whether a member with the given group and role
// may see a document with the given visibility. Owners see everything
// regardless of group.
func CanViewDocument(g Group, v Visibility, r Role) bool {
	if r == RoleOwner {
		return true
	}
	switch v {
	case VisibilityBoth:
		return true
	case VisibilityConsultingOnly:
		return g == GroupConsulting
	case VisibilityClientOnly:
		return g == GroupClient
	default:
		return false
	}
}

// CanSetDocumentVisibility reports whether the member may change a
// document's visibility. The group parameter is accepted for interface
// symmetry with CanViewDocument but does not affect the result.
func CanSetDocumentVisibility(r Role, _ Group) bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanMoveUserBetweenGroups reports whether the member may move another
// member between the consulting and client groups.
func CanMoveUserBetweenGroups(r Role) bool {
	return r == RoleOwner || r == RoleAdmin
}
