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

const linkTTL = 7 * 24 * time.Hour

// InviteLinkService implements the single-use shareable-link lifecycle.
type InviteLinkService struct {
	links   ports.InviteLinkRepository
	members ports.MembershipRepository
	emitter ports.ActivityEmitter
	log     zerolog.Logger
	now     func() time.Time
}

func NewInviteLinkService(
	links ports.InviteLinkRepository,
	members ports.MembershipRepository,
	emitter ports.ActivityEmitter,
	log zerolog.Logger,
) *InviteLinkService {
	return &InviteLinkService{
		links:   links,
		members: members,
		emitter: emitter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Generate creates an active link with a fresh link_ token and a 7-day
// expiry. The service does not gate on the creator's role and does not
// stop an admin from minting an owner-role link; both the invite
// permission and the role ceiling are enforced at the API boundary.
func (s *InviteLinkService) Generate(ctx context.Context, input ports.GenerateLinkInput) (*domain.InviteLink, error) {
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if !input.Group.Valid() {
		return nil, domain.ErrInvalidGroup
	}

	token, err := generateToken(linkTokenPrefix)
	if err != nil {
		return nil, err
	}

	now := s.now()
	link := &domain.InviteLink{
		ID:        uuid.NewString(),
		Token:     token,
		ProjectID: input.ProjectID,
		Role:      input.Role,
		Group:     input.Group,
		CreatedBy: input.CreatedBy,
		Status:    domain.LinkActive,
		CreatedAt: now,
		ExpiresAt: now.Add(linkTTL),
	}
	if err := s.links.Insert(ctx, link); err != nil {
		return nil, fmt.Errorf("generate invite link: %w", err)
	}

	metrics.LinksGeneratedTotal.WithLabelValues(string(link.Role)).Inc()
	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    link.ProjectID,
		UserID:       link.CreatedBy,
		Action:       domain.ActionLinkGenerated,
		ResourceType: "invite_link",
		ResourceID:   link.ID,
		GroupContext: link.Group,
		Metadata:     map[string]string{"role": string(link.Role)},
	})

	s.log.Info().
		Str("project_id", link.ProjectID).
		Str("link_id", link.ID).
		Str("role", string(link.Role)).
		Msg("invite link generated")
	return link, nil
}

// GetByToken returns the link carrying the token, or (nil, nil) when no
// such link exists.
func (s *InviteLinkService) GetByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	return s.links.FindByToken(ctx, token)
}

// ListProject returns the project's links scoped by the viewer's role:
// owners and admins see every link, everyone else only the links they
// created. The scoping happens in the store query, so a non-privileged
// caller cannot retrieve others' links through this operation.
func (s *InviteLinkService) ListProject(ctx context.Context, projectID, userID string, role domain.Role) ([]*domain.InviteLink, error) {
	createdBy := userID
	if role.CanManageMembers() {
		createdBy = ""
	}
	return s.links.ListByProject(ctx, projectID, createdBy)
}

// Accept redeems a single-use link. Guard order is fixed because the
// messages differ: not-found, then used/revoked, then expired, then
// already-a-member. The used claim is a conditional update filtered on
// status == active, so of two concurrent acceptors exactly one wins and
// the other gets ErrLinkUsed; membership is created only after the claim.
// If the membership write then fails the link stays burned; a burned
// link is preferred over a double join.
func (s *InviteLinkService) Accept(ctx context.Context, token, userID string) (*domain.Membership, error) {
	link, err := s.links.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		metrics.LinkRedemptionsDeniedTotal.WithLabelValues("not_found").Inc()
		return nil, domain.ErrLinkNotFound
	}

	now := s.now()
	if err := link.Redeemable(now); err != nil {
		metrics.LinkRedemptionsDeniedTotal.WithLabelValues(denialReason(err)).Inc()
		return nil, err
	}

	if existing, err := s.members.Get(ctx, link.ProjectID, userID); err == nil && existing != nil {
		metrics.LinkRedemptionsDeniedTotal.WithLabelValues("already_member").Inc()
		return nil, domain.ErrAlreadyMember
	}

	ok, err := s.links.MarkUsed(ctx, link.ID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("accept invite link: %w", err)
	}
	if !ok {
		metrics.LinkRedemptionsDeniedTotal.WithLabelValues("already_used").Inc()
		return nil, domain.ErrLinkUsed
	}

	m := &domain.Membership{
		ProjectID: link.ProjectID,
		UserID:    userID,
		Role:      link.Role,
		Group:     link.Group,
		InvitedBy: link.CreatedBy,
		JoinedAt:  now,
	}
	if err := s.members.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("accept invite link: %w", err)
	}

	metrics.LinksAcceptedTotal.Inc()
	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    link.ProjectID,
		UserID:       userID,
		Action:       domain.ActionLinkAccepted,
		ResourceType: "invite_link",
		ResourceID:   link.ID,
		GroupContext: link.Group,
		Metadata:     map[string]string{"role": string(link.Role)},
	})
	return m, nil
}

// Revoke moves an active link to revoked. Revoking a link in any other
// state fails with a message naming that state. Allowed for owners,
// admins, and the link's creator. The link must belong to the given
// project; a link from another project reads as not found, so an actor's
// authority over their own project never reaches another project's links.
func (s *InviteLinkService) Revoke(ctx context.Context, actor ports.Actor, projectID, id string) error {
	link, err := s.links.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if link == nil || link.ProjectID != projectID {
		return domain.ErrLinkNotFound
	}
	if !actor.Perms.CanManageMembers() && link.CreatedBy != actor.UserID {
		return domain.ErrForbidden
	}

	ok, err := s.links.MarkRevoked(ctx, id)
	if err != nil {
		return fmt.Errorf("revoke invite link: %w", err)
	}
	if !ok {
		// Re-read for the state-named message; the first read may predate
		// a concurrent transition.
		current, err := s.links.FindByID(ctx, id)
		if err != nil || current == nil {
			return domain.ErrLinkNotFound
		}
		return fmt.Errorf("cannot revoke link that is %s", current.Status)
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    link.ProjectID,
		UserID:       actor.UserID,
		Action:       domain.ActionLinkRevoked,
		ResourceType: "invite_link",
		ResourceID:   link.ID,
		GroupContext: link.Group,
	})
	return nil
}

// denialReason maps a redemption error to a metric label.
func denialReason(err error) string {
	switch err {
	case domain.ErrLinkUsed:
		return "already_used"
	case domain.ErrLinkRevoked:
		return "revoked"
	case domain.ErrLinkExpired:
		return "expired"
	default:
		return "other"
	}
}
