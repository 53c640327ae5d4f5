package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// Invalidator drops cached permissions after a membership mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, projectID, userID string)
}

// MemberService implements membership mutations. Every mutation is gated
// by role policy, invalidates the target's cached permissions, and emits
// a best-effort activity entry.
type MemberService struct {
	repo    ports.MembershipRepository
	perms   Invalidator
	emitter ports.ActivityEmitter
	log     zerolog.Logger
	now     func() time.Time
}

func NewMemberService(repo ports.MembershipRepository, perms Invalidator, emitter ports.ActivityEmitter, log zerolog.Logger) *MemberService {
	return &MemberService{
		repo:    repo,
		perms:   perms,
		emitter: emitter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every membership of the project.
func (s *MemberService) List(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// ChangeRole changes the target member's role. Two independent checks
// apply and both must pass: CanChangeRole gates on the role the target
// holds now, and the assignment ceiling gates on the role being granted.
// The reference UI only enforced the ceiling when populating its dropdown,
// leaving direct callers ungated; here both are enforced at the service.
func (s *MemberService) ChangeRole(ctx context.Context, actor ports.Actor, input ports.ChangeRoleInput) error {
	if !input.NewRole.Valid() {
		return domain.ErrInvalidRole
	}
	if actor.UserID == input.TargetUserID {
		// Self-role-change is never permitted, for any role.
		return domain.ErrForbidden
	}

	target, err := s.repo.Get(ctx, input.ProjectID, input.TargetUserID)
	if err != nil {
		return fmt.Errorf("change role: %w", err)
	}
	if !actor.Perms.CanChangeRole(target.Role) {
		return domain.ErrForbidden
	}
	if !actor.Perms.Role.CanAssign(input.NewRole) {
		return domain.ErrForbidden
	}

	if err := s.repo.UpdateRole(ctx, input.ProjectID, input.TargetUserID, input.NewRole); err != nil {
		return fmt.Errorf("change role: %w", err)
	}

	s.perms.Invalidate(ctx, input.ProjectID, input.TargetUserID)
	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    input.ProjectID,
		UserID:       actor.UserID,
		Action:       domain.ActionRoleChanged,
		ResourceType: "membership",
		ResourceID:   input.TargetUserID,
		GroupContext: target.EffectiveGroup(),
		Metadata: map[string]string{
			"from": string(target.Role),
			"to":   string(input.NewRole),
		},
	})

	s.log.Info().
		Str("project_id", input.ProjectID).
		Str("target", input.TargetUserID).
		Str("role", string(input.NewRole)).
		Msg("member role changed")
	return nil
}

// ChangeGroup moves the target member between the consulting and client
// groups.
func (s *MemberService) ChangeGroup(ctx context.Context, actor ports.Actor, input ports.ChangeGroupInput) error {
	if !input.NewGroup.Valid() {
		return domain.ErrInvalidGroup
	}
	if !actor.Perms.CanMoveUserBetweenGroups() {
		return domain.ErrForbidden
	}

	target, err := s.repo.Get(ctx, input.ProjectID, input.TargetUserID)
	if err != nil {
		return fmt.Errorf("change group: %w", err)
	}

	if err := s.repo.UpdateGroup(ctx, input.ProjectID, input.TargetUserID, input.NewGroup); err != nil {
		return fmt.Errorf("change group: %w", err)
	}

	s.perms.Invalidate(ctx, input.ProjectID, input.TargetUserID)
	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    input.ProjectID,
		UserID:       actor.UserID,
		Action:       domain.ActionGroupChanged,
		ResourceType: "membership",
		ResourceID:   input.TargetUserID,
		GroupContext: input.NewGroup,
		Metadata: map[string]string{
			"from": string(target.EffectiveGroup()),
			"to":   string(input.NewGroup),
		},
	})
	return nil
}

// Remove deletes the target's membership. Self-removal is denied inside
// the policy predicate itself.
func (s *MemberService) Remove(ctx context.Context, actor ports.Actor, projectID, targetUserID string) error {
	target, err := s.repo.Get(ctx, projectID, targetUserID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if !actor.Perms.CanRemoveMember(target.Role, actor.UserID, targetUserID) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, projectID, targetUserID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	s.perms.Invalidate(ctx, projectID, targetUserID)
	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    projectID,
		UserID:       actor.UserID,
		Action:       domain.ActionMemberRemoved,
		ResourceType: "membership",
		ResourceID:   targetUserID,
		GroupContext: target.EffectiveGroup(),
	})
	return nil
}

// BootstrapOwner creates the owner auto-membership when a project is
// created. The owner joins the consulting group and has no inviter. Only
// a project with no members at all can be claimed, so this cannot be used
// to seize an existing project. The emptiness check and the insert are a
// single conditional write in the store, so two concurrent bootstrap
// calls yield exactly one owner.
func (s *MemberService) BootstrapOwner(ctx context.Context, projectID, userID string) error {
	m := &domain.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      domain.RoleOwner,
		Group:     domain.GroupConsulting,
		JoinedAt:  s.now(),
	}
	ok, err := s.repo.ClaimProject(ctx, m)
	if err != nil {
		return fmt.Errorf("bootstrap owner: %w", err)
	}
	if !ok {
		return domain.ErrAlreadyMember
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    projectID,
		UserID:       userID,
		Action:       domain.ActionMemberJoined,
		ResourceType: "membership",
		ResourceID:   userID,
		GroupContext: domain.GroupConsulting,
		Metadata:     map[string]string{"role": string(domain.RoleOwner)},
	})
	return nil
}
