package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// PermissionCache abstracts the short-TTL permission store (Redis).
// All cache failures are soft: a miss or an error falls through to the
// membership store.
type PermissionCache interface {
	Get(ctx context.Context, projectID, userID string) (*domain.PermissionSet, error)
	Set(ctx context.Context, projectID, userID string, perms domain.PermissionSet) error
	Invalidate(ctx context.Context, projectID, userID string) error
}

// PermissionService resolves per-project permissions from the membership
// store. The role and group lookups are independent in the store schema
// and are issued concurrently.
type PermissionService struct {
	repo  ports.MembershipRepository
	cache PermissionCache
	log   zerolog.Logger
}

// NewPermissionService returns a PermissionService. cache may be nil, in
// which case every resolution hits the membership store.
func NewPermissionService(repo ports.MembershipRepository, cache PermissionCache, log zerolog.Logger) *PermissionService {
	return &PermissionService{repo: repo, cache: cache, log: log}
}

// Resolve returns the permission set for userID within projectID. A user
// with no membership resolves to the zero set (every predicate false)
// without error; store failures return the zero set and the error, so the
// caller is fail-closed either way.
func (s *PermissionService) Resolve(ctx context.Context, projectID, userID string) (domain.PermissionSet, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, projectID, userID)
		if err != nil {
			s.log.Warn().Err(err).Str("project_id", projectID).Msg("permission cache read failed, resolving from store")
		} else if cached != nil {
			return *cached, nil
		}
	}

	var (
		role  domain.Role
		group domain.Group
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.repo.GetRole(gctx, projectID, userID)
		if err != nil {
			return err
		}
		role = r
		return nil
	})
	g.Go(func() error {
		gr, err := s.repo.GetGroup(gctx, projectID, userID)
		if err != nil {
			return err
		}
		group = gr
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return domain.PermissionSet{}, nil
		}
		return domain.PermissionSet{}, err
	}

	perms := domain.PermissionSet{Role: role, Group: group, Member: true}

	if s.cache != nil {
		if err := s.cache.Set(ctx, projectID, userID, perms); err != nil {
			s.log.Warn().Err(err).Str("project_id", projectID).Msg("permission cache write failed")
		}
	}
	return perms, nil
}

// Invalidate drops any cached permission set for (projectID, userID).
// Best-effort: invalidation failures are logged, never returned, since the
// cache entry expires on its own TTL anyway.
func (s *PermissionService) Invalidate(ctx context.Context, projectID, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, projectID, userID); err != nil {
		s.log.Warn().Err(err).
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("permission cache invalidation failed")
	}
}
