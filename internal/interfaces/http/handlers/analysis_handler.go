package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appanalysis "github.com/turtacn/LexBridge-Intelligence/internal/application/analysis"
	domain "github.com/turtacn/LexBridge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// AnalysisHandler serves detection and analysis endpoints.
type AnalysisHandler struct {
	service appanalysis.Service
}

// NewAnalysisHandler builds the handler.
func NewAnalysisHandler(service appanalysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// DetectRequest asks for jurisdiction detection only.
type DetectRequest struct {
	Text string `json:"text" binding:"required"`
}

// Detect handles POST /api/v1/jurisdiction/detect.
func (h *AnalysisHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	result, err := h.service.Detect(c.Request.Context(), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// RunRequest asks for a full pipeline run.
type RunRequest struct {
	Text        string `json:"text"`
	DocumentID  string `json:"document_id"`
	Type        string `json:"type"`
	Hint        string `json:"hint"`
	IndianState string `json:"indian_state"`
	USState     string `json:"us_state"`
	Async       bool   `json:"async"`
	Force       bool   `json:"force"`
}

// Run handles POST /api/v1/analysis. Sync runs answer 200 with the
// completed analysis; async runs answer 202 with the pending one.
func (h *AnalysisHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	result, err := h.service.Run(c.Request.Context(), &appanalysis.RunInput{
		Text:        req.Text,
		DocumentID:  req.DocumentID,
		Type:        domain.Type(req.Type),
		Hint:        req.Hint,
		IndianState: req.IndianState,
		USState:     req.USState,
		Async:       req.Async,
		Force:       req.Force,
	})
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	if req.Async {
		status = http.StatusAccepted
	}
	respond(c, status, result)
}

// StateAnalysisRequest asks one state-scoped extractor to run.
type StateAnalysisRequest struct {
	Text  string `json:"text" binding:"required"`
	State string `json:"state"`
}

// AnalyzeIndia handles POST /api/v1/analysis/india.
func (h *AnalysisHandler) AnalyzeIndia(c *gin.Context) {
	var req StateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	result, err := h.service.AnalyzeIndia(c.Request.Context(), req.Text, req.State)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// AnalyzeUS handles POST /api/v1/analysis/us.
func (h *AnalysisHandler) AnalyzeUS(c *gin.Context) {
	var req StateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	result, err := h.service.AnalyzeUS(c.Request.Context(), req.Text, req.State)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// CrossBorderRequest asks the comparative analyzer to run.
type CrossBorderRequest struct {
	Text        string `json:"text" binding:"required"`
	IndianState string `json:"indian_state"`
	USState     string `json:"us_state"`
}

// AnalyzeCrossBorder handles POST /api/v1/analysis/cross-border.
func (h *AnalysisHandler) AnalyzeCrossBorder(c *gin.Context) {
	var req CrossBorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	result, err := h.service.AnalyzeCrossBorder(c.Request.Context(), req.Text, req.IndianState, req.USState)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Get handles GET /api/v1/analysis/:id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		fail(c, errors.NewInvalidInput("analysis ID is required"))
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// List handles GET /api/v1/analysis.
func (h *AnalysisHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), &appanalysis.ListInput{
		Status:       c.Query("status"),
		Type:         c.Query("type"),
		Jurisdiction: c.Query("jurisdiction"),
		DocumentID:   c.Query("document_id"),
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 20),
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, result.Analyses, result.Page, result.PageSize, result.Total)
}
