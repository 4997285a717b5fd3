package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// AnalysesClient calls the detection, analysis and search endpoints.
type AnalysesClient struct {
	client *Client
}

// RunAnalysisRequest asks for one pipeline run.
type RunAnalysisRequest struct {
	Text        string `json:"text,omitempty"`
	DocumentID  string `json:"document_id,omitempty"`
	Type        string `json:"type,omitempty"`
	Hint        string `json:"hint,omitempty"`
	IndianState string `json:"indian_state,omitempty"`
	USState     string `json:"us_state,omitempty"`
	Async       bool   `json:"async,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

// Analysis is one pipeline run as the API reports it.
type Analysis struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"document_id,omitempty"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Async        bool            `json:"async"`
	Jurisdiction string          `json:"jurisdiction"`
	Confidence   float64         `json:"confidence"`
	RiskLevel    string          `json:"risk_level,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	Report       json.RawMessage `json:"report,omitempty"`
	LLMReviewed  bool            `json:"llm_reviewed"`
	LLMAdopted   bool            `json:"llm_adopted"`
	ErrorCode    string          `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	RequestedAt  time.Time       `json:"requested_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// AnalysisList is a page of analyses.
type AnalysisList struct {
	Analyses []*Analysis
	Page     Page
}

// ListAnalysesOptions narrow a listing.
type ListAnalysesOptions struct {
	Status       string
	Type         string
	Jurisdiction string
	DocumentID   string
	Page         int
	PageSize     int
}

// SearchOptions narrow a search.
type SearchOptions struct {
	Jurisdiction string
	RiskLevel    string
	Type         string
	DocumentType string
	Page         int
	PageSize     int
}

// SearchHit is one search result.
type SearchHit struct {
	Score    float64         `json:"score"`
	Analysis json.RawMessage `json:"analysis"`
}

// SearchResult is a page of search hits.
type SearchResult struct {
	Hits []SearchHit
	Page Page
}

// Detect runs jurisdiction detection over text.
func (ac *AnalysesClient) Detect(ctx context.Context, text string) (*legal.JurisdictionResult, error) {
	var result legal.JurisdictionResult
	_, err := ac.client.post(ctx, "/api/v1/jurisdiction/detect", map[string]string{"text": text}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Run submits one analysis run.
func (ac *AnalysesClient) Run(ctx context.Context, req *RunAnalysisRequest) (*Analysis, error) {
	var result Analysis
	_, err := ac.client.post(ctx, "/api/v1/analysis", req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeIndia runs the Indian extractor directly.
func (ac *AnalysesClient) AnalyzeIndia(ctx context.Context, text, state string) (*legal.IndianLegalAnalysis, error) {
	var result legal.IndianLegalAnalysis
	_, err := ac.client.post(ctx, "/api/v1/analysis/india",
		map[string]string{"text": text, "state": state}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeUS runs the US extractor directly.
func (ac *AnalysesClient) AnalyzeUS(ctx context.Context, text, state string) (*legal.USLegalAnalysis, error) {
	var result legal.USLegalAnalysis
	_, err := ac.client.post(ctx, "/api/v1/analysis/us",
		map[string]string{"text": text, "state": state}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeCrossBorder runs the comparative analyzer directly.
func (ac *AnalysesClient) AnalyzeCrossBorder(ctx context.Context, text, indianState, usState string) (*legal.CrossBorderAnalysis, error) {
	var result legal.CrossBorderAnalysis
	_, err := ac.client.post(ctx, "/api/v1/analysis/cross-border",
		map[string]string{"text": text, "indian_state": indianState, "us_state": usState}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches one analysis by ID.
func (ac *AnalysesClient) Get(ctx context.Context, id string) (*Analysis, error) {
	var result Analysis
	_, err := ac.client.get(ctx, "/api/v1/analysis/"+url.PathEscape(id), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List pages through analyses.
func (ac *AnalysesClient) List(ctx context.Context, opts *ListAnalysesOptions) (*AnalysisList, error) {
	query := url.Values{}
	if opts != nil {
		setIfNotEmpty(query, "status", opts.Status)
		setIfNotEmpty(query, "type", opts.Type)
		setIfNotEmpty(query, "jurisdiction", opts.Jurisdiction)
		setIfNotEmpty(query, "document_id", opts.DocumentID)
		setIfPositive(query, "page", opts.Page)
		setIfPositive(query, "page_size", opts.PageSize)
	}

	var analyses []*Analysis
	page, err := ac.client.get(ctx, withQuery("/api/v1/analysis", query), &analyses)
	if err != nil {
		return nil, err
	}
	result := &AnalysisList{Analyses: analyses}
	if page != nil {
		result.Page = *page
	}
	return result, nil
}

// Search runs full-text search over completed analyses.
func (ac *AnalysesClient) Search(ctx context.Context, q string, opts *SearchOptions) (*SearchResult, error) {
	query := url.Values{}
	setIfNotEmpty(query, "q", q)
	if opts != nil {
		setIfNotEmpty(query, "jurisdiction", opts.Jurisdiction)
		setIfNotEmpty(query, "risk_level", opts.RiskLevel)
		setIfNotEmpty(query, "type", opts.Type)
		setIfNotEmpty(query, "document_type", opts.DocumentType)
		setIfPositive(query, "page", opts.Page)
		setIfPositive(query, "page_size", opts.PageSize)
	}

	var hits []SearchHit
	page, err := ac.client.get(ctx, withQuery("/api/v1/search", query), &hits)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{Hits: hits}
	if page != nil {
		result.Page = *page
	}
	return result, nil
}

func setIfNotEmpty(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func setIfPositive(query url.Values, key string, value int) {
	if value > 0 {
		query.Set(key, strconv.Itoa(value))
	}
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return fmt.Sprintf("%s?%s", path, query.Encode())
}
