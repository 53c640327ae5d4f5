package domain

import (
	"errors"
	"testing"
	"time"
)

var (
	past   = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
)

// ---------------------------------------------------------------------------
// Invitation lifecycle
// ---------------------------------------------------------------------------

func TestInvitation_EffectiveStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    InvitationStatus
		expiresAt time.Time
		want      InvitationStatus
	}{
		{"pending unexpired", InvitationPending, future, InvitationPending},
		{"pending past expiry reads expired", InvitationPending, past, InvitationExpired},
		{"accepted stays accepted past expiry", InvitationAccepted, past, InvitationAccepted},
		{"cancelled stays cancelled past expiry", InvitationCancelled, past, InvitationCancelled},
		{"declined stays declined past expiry", InvitationDeclined, past, InvitationDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invitation{Status: tt.status, ExpiresAt: tt.expiresAt}
			if got := inv.EffectiveStatus(now); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvitation_Redeemable(t *testing.T) {
	tests := []struct {
		name      string
		status    InvitationStatus
		expiresAt time.Time
		wantErr   error
	}{
		{"pending unexpired", InvitationPending, future, nil},
		{"pending expired", InvitationPending, past, ErrInviteExpired},
		{"accepted", InvitationAccepted, future, ErrInviteNotPending},
		{"cancelled", InvitationCancelled, future, ErrInviteNotPending},
		// A terminal status wins over expiry in the error message.
		{"cancelled and expired reports not pending", InvitationCancelled, past, ErrInviteNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invitation{Status: tt.status, ExpiresAt: tt.expiresAt}
			if err := inv.Redeemable(now); !errors.Is(err, tt.wantErr) {
				t.Errorf("Redeemable() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Invite link lifecycle
// ---------------------------------------------------------------------------

func TestInviteLink_EffectiveStatus(t *testing.T) {
	active := &InviteLink{Status: LinkActive, ExpiresAt: future}
	if got := active.EffectiveStatus(now); got != LinkActive {
		t.Errorf("active unexpired = %q, want %q", got, LinkActive)
	}

	stale := &InviteLink{Status: LinkActive, ExpiresAt: past}
	if got := stale.EffectiveStatus(now); got != LinkExpired {
		t.Errorf("active past expiry = %q, want %q", got, LinkExpired)
	}

	used := &InviteLink{Status: LinkUsed, ExpiresAt: past}
	if got := used.EffectiveStatus(now); got != LinkUsed {
		t.Errorf("used past expiry = %q, want %q", got, LinkUsed)
	}
}

func TestInviteLink_Redeemable_GuardOrder(t *testing.T) {
	tests := []struct {
		name      string
		status    LinkStatus
		expiresAt time.Time
		wantErr   error
	}{
		{"active unexpired", LinkActive, future, nil},
		{"active expired", LinkActive, past, ErrLinkExpired},
		{"used", LinkUsed, future, ErrLinkUsed},
		{"revoked", LinkRevoked, future, ErrLinkRevoked},
		// Used/revoked take precedence over expiry: a revoked link that
		// has also lapsed reports revoked, not expired.
		{"used and expired reports used", LinkUsed, past, ErrLinkUsed},
		{"revoked and expired reports revoked", LinkRevoked, past, ErrLinkRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := &InviteLink{Status: tt.status, ExpiresAt: tt.expiresAt}
			if err := link.Redeemable(now); !errors.Is(err, tt.wantErr) {
				t.Errorf("Redeemable() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
