package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appdocument "github.com/turtacn/LexBridge-Intelligence/internal/application/document"
	"github.com/turtacn/LexBridge-Intelligence/internal/domain/document"
)

// DocumentHandler serves document upload and retrieval endpoints.
type DocumentHandler struct {
	service appdocument.Service
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(service appdocument.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// UploadRequest carries one plain-text upload.
type UploadRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

// Upload handles POST /api/v1/documents. A duplicate upload answers
// 200 with the existing document; a fresh one answers 201.
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	doc, err := h.service.Upload(c.Request.Context(), &appdocument.UploadInput{
		Title:   req.Title,
		Content: req.Content,
		Source:  document.SourceAPI,
	})
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusCreated
	if doc.Duplicate {
		status = http.StatusOK
	}
	respond(c, status, doc)
}

// Get handles GET /api/v1/documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, doc)
}

// GetContent handles GET /api/v1/documents/:id/content, answering the
// raw stored text.
func (h *DocumentHandler) GetContent(c *gin.Context) {
	content, err := h.service.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, document.DefaultContentType, []byte(content))
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, result.Documents, result.Page, result.PageSize, result.Total)
}
