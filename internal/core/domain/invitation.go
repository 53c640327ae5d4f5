package domain

import (
	"errors"
	"time"
)

var (
	ErrInviteNotFound   = errors.New("invitation not found")
	ErrInviteNotPending = errors.New("invitation is no longer pending")
	ErrInviteExpired    = errors.New("invitation has expired")
	ErrLinkNotFound     = errors.New("invite link not found")
	ErrLinkUsed         = errors.New("invite link has already been used")
	ErrLinkRevoked      = errors.New("invite link has been revoked")
	ErrLinkExpired      = errors.New("invite link has expired")
)

// InvitationStatus is the stored lifecycle state of an email invitation.
// Expiry is never stored: it is derived at read time from ExpiresAt, so a
// record can remain "pending" in storage forever after expiring.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationDeclined  InvitationStatus = "declined"

	// InvitationExpired is a view-level status only; it is computed by
	// EffectiveStatus and never written back.
	InvitationExpired InvitationStatus = "expired"
)

// Invitation is an email-addressed, single-recipient offer to join a
// project with a fixed role and group.
type Invitation struct {
	ID        string           `json:"id" bson:"_id"`
	Token     string           `json:"token" bson:"token"`
	ProjectID string           `json:"project_id" bson:"project_id"`
	Email     string           `json:"email" bson:"email"`
	Role      Role             `json:"role" bson:"role"`
	Group     Group            `json:"group" bson:"group"`
	InvitedBy string           `json:"invited_by" bson:"invited_by"`
	Status    InvitationStatus `json:"status" bson:"status"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time        `json:"expires_at" bson:"expires_at"`
}

// EffectiveStatus returns the status as seen by a reader at the given
// instant: a stored pending invitation past its expiry reads as expired.
func (i *Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return i.Status
}

// Redeemable reports whether the invitation can still be accepted at the
// given instant. Callers must re-check immediately before mutating; a
// previously fetched answer can go stale without any write occurring.
func (i *Invitation) Redeemable(now time.Time) error {
	var terminal error
	if i.Status != InvitationPending {
		terminal = ErrInviteNotPending
	}
	return redeemable(terminal, i.ExpiresAt, now)
}

// LinkStatus is the stored lifecycle state of a shareable invite link.
type LinkStatus string

const (
	LinkActive  LinkStatus = "active"
	LinkUsed    LinkStatus = "used"
	LinkRevoked LinkStatus = "revoked"

	// LinkExpired is view-level only, same as InvitationExpired.
	LinkExpired LinkStatus = "expired"
)

// InviteLink is an anonymous, single-use, token-bearing offer to join a
// project with a fixed role and group. Exactly one acceptance transitions
// active → used.
type InviteLink struct {
	ID         string     `json:"id" bson:"_id"`
	Token      string     `json:"token" bson:"token"`
	ProjectID  string     `json:"project_id" bson:"project_id"`
	Role       Role       `json:"role" bson:"role"`
	Group      Group      `json:"group" bson:"group"`
	CreatedBy  string     `json:"created_by" bson:"created_by"`
	Status     LinkStatus `json:"status" bson:"status"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" bson:"expires_at"`
	AcceptedBy string     `json:"accepted_by,omitempty" bson:"accepted_by,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty" bson:"accepted_at,omitempty"`
}

// EffectiveStatus returns the status as seen by a reader at the given
// instant.
func (l *InviteLink) EffectiveStatus(now time.Time) LinkStatus {
	if l.Status == LinkActive && now.After(l.ExpiresAt) {
		return LinkExpired
	}
	return l.Status
}

// Redeemable reports whether the link can still be accepted at the given
// instant. Error precedence: terminal status before expiry, so a revoked
// link that is also past its expiry reports revoked.
func (l *InviteLink) Redeemable(now time.Time) error {
	var terminal error
	switch l.Status {
	case LinkUsed:
		terminal = ErrLinkUsed
	case LinkRevoked:
		terminal = ErrLinkRevoked
	}
	err := redeemable(terminal, l.ExpiresAt, now)
	if errors.Is(err, ErrInviteExpired) {
		return ErrLinkExpired
	}
	return err
}

// redeemable is the shared guard chain for both offer lifecycles: a
// terminal stored status wins over computed expiry, and expiry is checked
// against ExpiresAt regardless of what the stored status says.
func redeemable(terminal error, expiresAt, now time.Time) error {
	if terminal != nil {
		return terminal
	}
	if now.After(expiresAt) {
		return ErrInviteExpired
	}
	return nil
}
