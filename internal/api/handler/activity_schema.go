package handler

import (
	"time"

	"github.com/collabworks/portal-api/internal/core/domain"
)

// --- Request / Response types ---

type activityEntryResponse struct {
	ID           string            `json:"id"`
	ProjectID    string            `json:"project_id"`
	UserID       string            `json:"user_id"`
	Action       string            `json:"action"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   string            `json:"resource_id,omitempty"`
	GroupContext string            `json:"group_context,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

type activityPageResponse struct {
	Data       []activityEntryResponse `json:"data"`
	NextCursor string                  `json:"next_cursor,omitempty"`
	HasMore    bool                    `json:"has_more"`
}

type activityListResponse struct {
	Data  []activityEntryResponse `json:"data"`
	Total int                     `json:"total"`
}

func toActivityEntryResponse(e *domain.ActivityEntry) activityEntryResponse {
	return activityEntryResponse{
		ID:           e.ID,
		ProjectID:    e.ProjectID,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		GroupContext: string(e.GroupContext),
		Metadata:     e.Metadata,
		Timestamp:    e.Timestamp,
	}
}

func toActivityEntryResponses(entries []*domain.ActivityEntry) []activityEntryResponse {
	out := make([]activityEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toActivityEntryResponse(e))
	}
	return out
}
