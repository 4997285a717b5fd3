package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// Searcher is the slice of the search layer this handler needs.
// opensearch.Searcher satisfies it.
type Searcher interface {
	Search(ctx context.Context, query opensearch.SearchQuery) (*opensearch.SearchResult, error)
}

// SearchHandler serves full-text search over completed analyses.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler builds the handler. A nil searcher answers 503,
// letting deployments run without the search backend.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles GET /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	if h.searcher == nil {
		fail(c, errors.NewUnavailable("search"))
		return
	}
	result, err := h.searcher.Search(c.Request.Context(), opensearch.SearchQuery{
		Query:        c.Query("q"),
		Jurisdiction: c.Query("jurisdiction"),
		RiskLevel:    c.Query("risk_level"),
		AnalysisType: c.Query("type"),
		DocumentType: c.Query("document_type"),
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 0),
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, result.Hits, result.Page, result.PageSize, result.Total)
}
