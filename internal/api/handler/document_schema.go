package handler

import (
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// --- Request / Response types ---

type createDocumentRequest struct {
	Name        string `json:"name"         validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes"   validate:"required,gt=0"`
}

type setVisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=consulting_only client_only both"`
}

type documentResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Visibility  string    `json:"visibility"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listDocumentsResponse struct {
	Data  []documentResponse `json:"data"`
	Total int                `json:"total"`
}

func toDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Visibility:  string(d.Visibility),
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
