package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// DocumentHandler handles HTTP requests for document metadata.
type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Create registers a shared document. Its visibility is derived from the
// uploader's group; clients cannot set it at creation time.
//
// @Summary      Share a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string                 true  "Project ID"
// @Param        body        body      createDocumentRequest  true  "Document metadata"
// @Success      201         {object}  documentResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/documents [post]
func (h *DocumentHandler) Create(c echo.Context) error {
	var req createDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	doc, err := h.service.Create(c.Request().Context(), actor, ports.CreateDocumentInput{
		ProjectID:   c.Param("project_id"),
		Name:        req.Name,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// List returns the documents visible to the caller's group and role.
//
// @Summary      List visible documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  listDocumentsResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/projects/{project_id}/documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	docs, err := h.service.ListVisible(c.Request().Context(), actor, c.Param("project_id"))
	if err != nil {
		return err
	}

	data := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		data = append(data, toDocumentResponse(d))
	}

	return c.JSON(http.StatusOK, listDocumentsResponse{Data: data, Total: len(data)})
}

// SetVisibility changes who can see a document.
//
// @Summary      Change a document's visibility
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string                true  "Project ID"
// @Param        id          path      string                true  "Document ID"
// @Param        body        body      setVisibilityRequest  true  "New visibility"
// @Success      200         {object}  documentResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/projects/{project_id}/documents/{id}/visibility [put]
func (h *DocumentHandler) SetVisibility(c echo.Context) error {
	var req setVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	doc, err := h.service.SetVisibility(c.Request().Context(), actor, c.Param("project_id"), c.Param("id"), domain.Visibility(req.Visibility))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDocumentResponse(doc))
}
