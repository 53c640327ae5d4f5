package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/api/middleware"
	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub service
// ---------------------------------------------------------------------------

type stubLinkService struct {
	generated *ports.GenerateLinkInput
	byToken   map[string]*domain.InviteLink
	revoked   []string
}

func (s *stubLinkService) Generate(_ context.Context, input ports.GenerateLinkInput) (*domain.InviteLink, error) {
	s.generated = &input
	return &domain.InviteLink{
		ID:        "l1",
		Token:     "link_secret_token",
		ProjectID: input.ProjectID,
		Role:      input.Role,
		Group:     input.Group,
		CreatedBy: input.CreatedBy,
		Status:    domain.LinkActive,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil
}

func (s *stubLinkService) GetByToken(_ context.Context, token string) (*domain.InviteLink, error) {
	return s.byToken[token], nil
}

func (s *stubLinkService) ListProject(_ context.Context, _, _ string, _ domain.Role) ([]*domain.InviteLink, error) {
	return nil, nil
}

func (s *stubLinkService) Accept(_ context.Context, _, userID string) (*domain.Membership, error) {
	return &domain.Membership{ProjectID: "p1", UserID: userID, Role: domain.RoleViewer, Group: domain.GroupClient}, nil
}

func (s *stubLinkService) Revoke(_ context.Context, _ ports.Actor, projectID, id string) error {
	s.revoked = append(s.revoked, projectID+"/"+id)
	return nil
}

// ---------------------------------------------------------------------------
// Generate: boundary checks
// ---------------------------------------------------------------------------

func linkContext(t *testing.T, body string, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id")
	c.SetParamValues("p1")
	c.Set("user_id", "actor")
	c.Set(middleware.PermsKey, domain.PermissionSet{Role: role, Group: domain.GroupConsulting, Member: true})
	return c, rec
}

func TestLinkHandler_Generate_ReturnsToken(t *testing.T) {
	stub := &stubLinkService{}
	h := NewLinkHandler(stub)
	c, rec := linkContext(t, `{"role":"viewer","group":"client"}`, domain.RoleOwner)

	if err := h.Generate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	// The token is shown exactly once, at mint time.
	if !strings.Contains(rec.Body.String(), "link_secret_token") {
		t.Errorf("mint response must include the token, got %s", rec.Body.String())
	}
	if stub.generated == nil || stub.generated.CreatedBy != "actor" {
		t.Errorf("service input = %+v, want CreatedBy actor", stub.generated)
	}
}

func TestLinkHandler_Generate_AdminCeiling(t *testing.T) {
	stub := &stubLinkService{}
	h := NewLinkHandler(stub)
	c, _ := linkContext(t, `{"role":"owner","group":"client"}`, domain.RoleAdmin)

	err := h.Generate(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin must not mint an owner link, got %v", err)
	}
	if stub.generated != nil {
		t.Error("service must not be called on a denied request")
	}
}

func TestLinkHandler_Generate_EditorDenied(t *testing.T) {
	stub := &stubLinkService{}
	h := NewLinkHandler(stub)
	c, _ := linkContext(t, `{"role":"viewer","group":"client"}`, domain.RoleEditor)

	if err := h.Generate(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("editor must not mint links, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

func TestLinkHandler_Preview(t *testing.T) {
	stub := &stubLinkService{byToken: map[string]*domain.InviteLink{
		"link_secret_token": {
			ID:        "l1",
			Token:     "link_secret_token",
			ProjectID: "p1",
			Role:      domain.RoleEditor,
			Group:     domain.GroupClient,
			Status:    domain.LinkActive,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		},
	}}
	h := NewLinkHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("link_secret_token")

	if err := h.Preview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"project_id":"p1"`) || !strings.Contains(body, `"role":"editor"`) {
		t.Errorf("preview missing offer details: %s", body)
	}
	// The preview identifies the offer, never the redeemable secret.
	if strings.Contains(body, "link_secret_token") {
		t.Errorf("preview must not echo the token: %s", body)
	}
}

func TestLinkHandler_Preview_UnknownToken(t *testing.T) {
	h := NewLinkHandler(&stubLinkService{byToken: map[string]*domain.InviteLink{}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("nope")

	if err := h.Preview(c); !errors.Is(err, domain.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Revoke
// ---------------------------------------------------------------------------

func TestLinkHandler_Revoke(t *testing.T) {
	stub := &stubLinkService{}
	h := NewLinkHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id", "id")
	c.SetParamValues("p1", "l1")
	c.Set("user_id", "actor")
	c.Set(middleware.PermsKey, domain.PermissionSet{Role: domain.RoleEditor, Group: domain.GroupConsulting, Member: true})

	if err := h.Revoke(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "p1/l1" {
		t.Errorf("revoked = %v, want the route's project and link ids", stub.revoked)
	}
}
