package domain

import "time"

// Activity actions recorded in the audit trail. The set is open-ended;
// these constants cover the permission-relevant mutations.
const (
	ActionMemberJoined     = "member.joined"
	ActionMemberRemoved    = "member.removed"
	ActionRoleChanged      = "member.role_changed"
	ActionGroupChanged     = "member.group_changed"
	ActionInviteCreated    = "invitation.created"
	ActionInviteAccepted   = "invitation.accepted"
	ActionInviteCancelled  = "invitation.cancelled"
	ActionInviteDeclined   = "invitation.declined"
	ActionLinkGenerated    = "invite_link.generated"
	ActionLinkAccepted     = "invite_link.accepted"
	ActionLinkRevoked      = "invite_link.revoked"
	ActionDocumentCreated  = "document.created"
	ActionVisibilityChange = "document.visibility_changed"
)

// ActivityEntry is one immutable record in the append-only audit trail.
// There is no update or delete operation; writes are best-effort and must
// never block the mutation they describe.
type ActivityEntry struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	ProjectID    string            `json:"project_id" bson:"project_id"`
	UserID       string            `json:"user_id" bson:"user_id"`
	Action       string            `json:"action" bson:"action"`
	ResourceType string            `json:"resource_type" bson:"resource_type"`
	ResourceID   string            `json:"resource_id" bson:"resource_id"`
	GroupContext Group             `json:"group_context,omitempty" bson:"group_context,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Timestamp    time.Time         `json:"timestamp" bson:"timestamp"`
}
