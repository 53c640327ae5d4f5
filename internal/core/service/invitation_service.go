package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/api/metrics"
	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

const defaultInviteTTL = 7 * 24 * time.Hour

// InvitationService implements the email-invitation lifecycle. The service
// trusts its callers for authorization: handlers enforce CanInviteMembers
// and the consulting-group restriction before calling Create.
type InvitationService struct {
	invites ports.InvitationRepository
	members ports.MembershipRepository
	emitter ports.ActivityEmitter
	log     zerolog.Logger
	ttl     time.Duration
	now     func() time.Time
}

func NewInvitationService(
	invites ports.InvitationRepository,
	members ports.MembershipRepository,
	emitter ports.ActivityEmitter,
	ttl time.Duration,
	log zerolog.Logger,
) *InvitationService {
	if ttl <= 0 {
		ttl = defaultInviteTTL
	}
	return &InvitationService{
		invites: invites,
		members: members,
		emitter: emitter,
		log:     log,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a pending invitation with a fresh inv_ token.
func (s *InvitationService) Create(ctx context.Context, input ports.CreateInvitationInput) (*domain.Invitation, error) {
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if !input.Group.Valid() {
		return nil, domain.ErrInvalidGroup
	}

	token, err := generateToken(invitationTokenPrefix)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := &domain.Invitation{
		ID:        uuid.NewString(),
		Token:     token,
		ProjectID: input.ProjectID,
		Email:     input.Email,
		Role:      input.Role,
		Group:     input.Group,
		InvitedBy: input.InvitedBy,
		Status:    domain.InvitationPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.invites.Insert(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	metrics.InvitationsCreatedTotal.WithLabelValues(string(inv.Group)).Inc()
	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    inv.ProjectID,
		UserID:       inv.InvitedBy,
		Action:       domain.ActionInviteCreated,
		ResourceType: "invitation",
		ResourceID:   inv.ID,
		GroupContext: inv.Group,
		Metadata:     map[string]string{"email": inv.Email, "role": string(inv.Role)},
	})

	s.log.Info().
		Str("project_id", inv.ProjectID).
		Str("invitation_id", inv.ID).
		Str("role", string(inv.Role)).
		Msg("invitation created")
	return inv, nil
}

// Accept redeems a pending invitation. Pending status and expiry are
// re-validated here, immediately before the mutation: a status fetched
// earlier may have gone stale without any write (expiry is computed, not
// stored). Membership is created or updated: an existing member is moved
// to the invitation's role and group.
func (s *InvitationService) Accept(ctx context.Context, token, userID string) (*domain.Membership, error) {
	inv, err := s.invites.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := inv.Redeemable(s.now()); err != nil {
		return nil, err
	}

	// Claim the invitation first; losing the conditional update means a
	// concurrent acceptor got there between the check above and now.
	ok, err := s.invites.TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationAccepted)
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}
	if !ok {
		return nil, domain.ErrInviteNotPending
	}

	m := &domain.Membership{
		ProjectID: inv.ProjectID,
		UserID:    userID,
		Role:      inv.Role,
		Group:     inv.Group,
		InvitedBy: inv.InvitedBy,
		JoinedAt:  s.now(),
	}
	if err := s.members.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    inv.ProjectID,
		UserID:       userID,
		Action:       domain.ActionInviteAccepted,
		ResourceType: "invitation",
		ResourceID:   inv.ID,
		GroupContext: inv.Group,
		Metadata:     map[string]string{"role": string(inv.Role)},
	})
	return m, nil
}

// Cancel moves a pending invitation to cancelled. Any other stored state
// fails with a state-specific error. The invitation must belong to the
// given project: ids are guessable across projects, so a caller
// authorized on their own project must not reach another project's
// records through this path.
func (s *InvitationService) Cancel(ctx context.Context, projectID, id, cancelledBy string) error {
	inv, err := s.invites.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.ProjectID != projectID {
		return domain.ErrInviteNotFound
	}

	ok, err := s.invites.TransitionStatus(ctx, id, domain.InvitationPending, domain.InvitationCancelled)
	if err != nil {
		return fmt.Errorf("cancel invitation: %w", err)
	}
	if !ok {
		return domain.ErrInviteNotPending
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    inv.ProjectID,
		UserID:       cancelledBy,
		Action:       domain.ActionInviteCancelled,
		ResourceType: "invitation",
		ResourceID:   inv.ID,
		GroupContext: inv.Group,
	})
	return nil
}

// Decline lets the recipient refuse a pending invitation.
func (s *InvitationService) Decline(ctx context.Context, token, userID string) error {
	inv, err := s.invites.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := inv.Redeemable(s.now()); err != nil {
		return err
	}

	ok, err := s.invites.TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationDeclined)
	if err != nil {
		return fmt.Errorf("decline invitation: %w", err)
	}
	if !ok {
		return domain.ErrInviteNotPending
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    inv.ProjectID,
		UserID:       userID,
		Action:       domain.ActionInviteDeclined,
		ResourceType: "invitation",
		ResourceID:   inv.ID,
		GroupContext: inv.Group,
	})
	return nil
}

// ListProject returns the project's stored-pending invitations. Expired
// ones are included with their stored status; callers derive the
// effective status per record.
func (s *InvitationService) ListProject(ctx context.Context, projectID string) ([]*domain.Invitation, error) {
	return s.invites.ListPendingByProject(ctx, projectID)
}
