package ports

import (
	"context"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// CreateDocumentInput carries the metadata for a newly shared document.
// Visibility is not accepted here: it is derived from the uploader's
// group by policy.
type CreateDocumentInput struct {
	ProjectID   string
	Name        string
	ContentType string
	SizeBytes   int64
}

// DocumentService defines the document-metadata use cases gated by group
// policy.
type DocumentService interface {
	Create(ctx context.Context, actor Actor, input CreateDocumentInput) (*domain.Document, error)
	// ListVisible returns only documents the actor's group and role allow;
	// the visibility filter is part of the store query, not a client-side
	// hide.
	ListVisible(ctx context.Context, actor Actor, projectID string) ([]*domain.Document, error)
	// SetVisibility only acts on documents belonging to projectID; an id
	// from another project reads as not found.
	SetVisibility(ctx context.Context, actor Actor, projectID, documentID string, v domain.Visibility) (*domain.Document, error)
}
