package ports

import (
	"context"
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// ActivityFilter carries the parameters of the single-shot filter queries.
// Exactly one of UserID / Action / the date range is set per query; the
// repository indexes (project_id, timestamp) plus one secondary field, so
// combined filters are not offered.
type ActivityFilter struct {
	ProjectID string
	UserID    string
	Action    string
	From      time.Time
	To        time.Time
	Limit     int
}

// ActivityPage is one cursor-paginated slice of the project log,
// newest-first. HasMore follows the reference convention: true exactly
// when the page came back full.
type ActivityPage struct {
	Entries    []*domain.ActivityEntry
	NextCursor string
	HasMore    bool
}

// ActivityRepository is the append-only audit store. Entries are immutable
// once written; there is no update or delete.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) (string, error)
	// ProjectPage returns up to limit entries ordered by timestamp
	// descending, starting after the given cursor (empty = newest).
	ProjectPage(ctx context.Context, projectID string, limit int, cursor string) (*ActivityPage, error)
	// Filter runs one of the non-paginated filter queries.
	Filter(ctx context.Context, f ActivityFilter) ([]*domain.ActivityEntry, error)
}
