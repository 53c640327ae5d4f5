package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

const (
	defaultFilterLimit = 50
	maxPageLimit       = 100
)

// ActivityService is the read side of the activity log. Writes go through
// the queue emitter, not through this service, so the best-effort /
// must-succeed distinction stays visible at the call sites.
type ActivityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) *ActivityService {
	return &ActivityService{repo: repo, log: log}
}

// ProjectLog returns one cursor-paginated page, newest-first.
func (s *ActivityService) ProjectLog(ctx context.Context, projectID string, limit int, cursor string) (*ports.ActivityPage, error) {
	if limit <= 0 {
		limit = defaultFilterLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.repo.ProjectPage(ctx, projectID, limit, cursor)
}

// FilterByUser is a single-shot, non-paginated query.
func (s *ActivityService) FilterByUser(ctx context.Context, projectID, userID string, limit int) ([]*domain.ActivityEntry, error) {
	return s.repo.Filter(ctx, ports.ActivityFilter{
		ProjectID: projectID,
		UserID:    userID,
		Limit:     clampFilterLimit(limit),
	})
}

// FilterByAction is a single-shot, non-paginated query.
func (s *ActivityService) FilterByAction(ctx context.Context, projectID, action string, limit int) ([]*domain.ActivityEntry, error) {
	return s.repo.Filter(ctx, ports.ActivityFilter{
		ProjectID: projectID,
		Action:    action,
		Limit:     clampFilterLimit(limit),
	})
}

// FilterByDateRange is a single-shot, non-paginated query.
func (s *ActivityService) FilterByDateRange(ctx context.Context, projectID string, from, to time.Time, limit int) ([]*domain.ActivityEntry, error) {
	return s.repo.Filter(ctx, ports.ActivityFilter{
		ProjectID: projectID,
		From:      from,
		To:        to,
		Limit:     clampFilterLimit(limit),
	})
}

func clampFilterLimit(limit int) int {
	if limit <= 0 {
		return defaultFilterLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
