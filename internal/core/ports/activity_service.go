package ports

import (
	"context"
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// ActivityEmitter is the best-effort, non-blocking side of the activity
// log. Emit never fails and never blocks the primary mutation; entries may
// be dropped under saturation.
type ActivityEmitter interface {
	Emit(entry domain.ActivityEntry)
}

// ActivityQuery is the read side of the activity log.
type ActivityQuery interface {
	ProjectLog(ctx context.Context, projectID string, limit int, cursor string) (*ActivityPage, error)
	FilterByUser(ctx context.Context, projectID, userID string, limit int) ([]*domain.ActivityEntry, error)
	FilterByAction(ctx context.Context, projectID, action string, limit int) ([]*domain.ActivityEntry, error)
	FilterByDateRange(ctx context.Context, projectID string, from, to time.Time, limit int) ([]*domain.ActivityEntry, error)
}

// FilterByGroup narrows an already-fetched page to entries with the given
// group context. The store does not index group_context, so this is an
// in-memory filter and can under-report matches beyond the fetched page.
func FilterByGroup(entries []*domain.ActivityEntry, group domain.Group) []*domain.ActivityEntry {
	out := make([]*domain.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		if e.GroupContext == group {
			out = append(out, e)
		}
	}
	return out
}
