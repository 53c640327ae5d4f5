package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// DocumentService manages document metadata under group policy. File
// bytes live in external storage; only the visibility-bearing record is
// handled here.
type DocumentService struct {
	repo    ports.DocumentRepository
	emitter ports.ActivityEmitter
	log     zerolog.Logger
	now     func() time.Time
}

func NewDocumentService(repo ports.DocumentRepository, emitter ports.ActivityEmitter, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		repo:    repo,
		emitter: emitter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create records a shared document. Visibility is derived from the
// uploader's group: consulting uploads stay consulting-only, client
// uploads are visible to both.
func (s *DocumentService) Create(ctx context.Context, actor ports.Actor, input ports.CreateDocumentInput) (*domain.Document, error) {
	if !actor.Perms.CanEditProject() {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	doc := &domain.Document{
		ID:          uuid.NewString(),
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		Visibility:  domain.DefaultDocumentVisibility(actor.Perms.Group),
		UploadedBy:  actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    doc.ProjectID,
		UserID:       actor.UserID,
		Action:       domain.ActionDocumentCreated,
		ResourceType: "document",
		ResourceID:   doc.ID,
		GroupContext: actor.Perms.Group,
		Metadata:     map[string]string{"name": doc.Name, "visibility": string(doc.Visibility)},
	})
	return doc, nil
}

// ListVisible returns documents the actor may see. Owners see everything;
// other roles see "both" plus their own group's exclusive documents. The
// filter is part of the store query.
func (s *DocumentService) ListVisible(ctx context.Context, actor ports.Actor, projectID string) ([]*domain.Document, error) {
	if !actor.Perms.Member {
		return nil, domain.ErrForbidden
	}
	scope := ports.DocumentVisibilityScope{Group: actor.Perms.Group}
	if actor.Perms.Role == domain.RoleOwner {
		scope = ports.DocumentVisibilityScope{All: true}
	}
	return s.repo.ListByProject(ctx, projectID, scope)
}

// SetVisibility changes a document's visibility; owner/admin only. The
// document must belong to the given project; an id from another project
// reads as not found, so authority over one project never reaches
// another project's documents.
func (s *DocumentService) SetVisibility(ctx context.Context, actor ports.Actor, projectID, documentID string, v domain.Visibility) (*domain.Document, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid visibility %q", v)
	}
	if !actor.Perms.CanSetDocumentVisibility() {
		return nil, domain.ErrForbidden
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.ProjectID != projectID {
		return nil, domain.ErrDocumentNotFound
	}

	if err := s.repo.UpdateVisibility(ctx, documentID, v); err != nil {
		return nil, fmt.Errorf("set visibility: %w", err)
	}

	s.emitter.Emit(domain.ActivityEntry{
		ProjectID:    doc.ProjectID,
		UserID:       actor.UserID,
		Action:       domain.ActionVisibilityChange,
		ResourceType: "document",
		ResourceID:   doc.ID,
		GroupContext: actor.Perms.Group,
		Metadata: map[string]string{
			"from": string(doc.Visibility),
			"to":   string(v),
		},
	})

	doc.Visibility = v
	doc.UpdatedAt = s.now()
	return doc, nil
}
