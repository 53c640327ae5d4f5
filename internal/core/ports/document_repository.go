package ports

import (
	"context"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// DocumentVisibilityScope describes what the lister may see. The filter is
// applied in the query itself, not client-side.
type DocumentVisibilityScope struct {
	// All short-circuits the visibility filter (owners).
	All bool
	// Group restricts to documents visible to this group: visibility
	// "both" plus the group's exclusive visibility.
	Group domain.Group
}

// DocumentRepository defines persistence for document metadata.
type DocumentRepository interface {
	Insert(ctx context.Context, doc *domain.Document) error
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	ListByProject(ctx context.Context, projectID string, scope DocumentVisibilityScope) ([]*domain.Document, error)
	UpdateVisibility(ctx context.Context, id string, v domain.Visibility) error
}
