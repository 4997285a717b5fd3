package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appanalysis "github.com/turtacn/LexBridge-Intelligence/internal/application/analysis"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAnalysisService scripts the application service.
type fakeAnalysisService struct {
	detectResult *legal.JurisdictionResult
	runResult    *appanalysis.Analysis
	getResult    *appanalysis.Analysis
	listResult   *appanalysis.ListResult
	err          error

	lastRun  *appanalysis.RunInput
	lastList *appanalysis.ListInput
	lastID   string
}

func (f *fakeAnalysisService) Detect(_ context.Context, _ string) (*legal.JurisdictionResult, error) {
	return f.detectResult, f.err
}

func (f *fakeAnalysisService) AnalyzeIndia(_ context.Context, _, state string) (*legal.IndianLegalAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &legal.IndianLegalAnalysis{State: state}, nil
}

func (f *fakeAnalysisService) AnalyzeUS(_ context.Context, _, state string) (*legal.USLegalAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &legal.USLegalAnalysis{GoverningState: state}, nil
}

func (f *fakeAnalysisService) AnalyzeCrossBorder(_ context.Context, _, _, _ string) (*legal.CrossBorderAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &legal.CrossBorderAnalysis{}, nil
}

func (f *fakeAnalysisService) Run(_ context.Context, input *appanalysis.RunInput) (*appanalysis.Analysis, error) {
	f.lastRun = input
	return f.runResult, f.err
}

func (f *fakeAnalysisService) GetByID(_ context.Context, id string) (*appanalysis.Analysis, error) {
	f.lastID = id
	return f.getResult, f.err
}

func (f *fakeAnalysisService) List(_ context.Context, input *appanalysis.ListInput) (*appanalysis.ListResult, error) {
	f.lastList = input
	return f.listResult, f.err
}

func (f *fakeAnalysisService) ProcessRequested(_ context.Context, _ *kafka.AnalysisRequestedPayload) error {
	return f.err
}

func newAnalysisRouter(svc appanalysis.Service) *gin.Engine {
	r := gin.New()
	h := NewAnalysisHandler(svc)
	r.POST("/api/v1/jurisdiction/detect", h.Detect)
	r.POST("/api/v1/analysis", h.Run)
	r.POST("/api/v1/analysis/india", h.AnalyzeIndia)
	r.POST("/api/v1/analysis/us", h.AnalyzeUS)
	r.POST("/api/v1/analysis/cross-border", h.AnalyzeCrossBorder)
	r.GET("/api/v1/analysis", h.List)
	r.GET("/api/v1/analysis/:id", h.Get)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDetectEndpoint(t *testing.T) {
	svc := &fakeAnalysisService{detectResult: &legal.JurisdictionResult{
		Jurisdiction: legal.JurisdictionIndia,
		Confidence:   0.91,
	}}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/jurisdiction/detect", `{"text":"stamp duty"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Success bool                     `json:"success"`
		Data    legal.JurisdictionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, legal.JurisdictionIndia, envelope.Data.Jurisdiction)
}

func TestDetectRejectsMissingText(t *testing.T) {
	r := newAnalysisRouter(&fakeAnalysisService{})

	w := doJSON(r, http.MethodPost, "/api/v1/jurisdiction/detect", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRunSyncAnswers200(t *testing.T) {
	svc := &fakeAnalysisService{runResult: &appanalysis.Analysis{ID: "a-1", Status: "completed"}}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/analysis",
		`{"text":"x","type":"full","hint":"india","indian_state":"Maharashtra"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastRun)
	assert.Equal(t, "india", svc.lastRun.Hint)
	assert.Equal(t, "Maharashtra", svc.lastRun.IndianState)
	assert.False(t, svc.lastRun.Async)
}

func TestRunAsyncAnswers202(t *testing.T) {
	svc := &fakeAnalysisService{runResult: &appanalysis.Analysis{ID: "a-2", Status: "pending"}}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/analysis", `{"text":"x","async":true}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRunMapsServiceError(t *testing.T) {
	svc := &fakeAnalysisService{err: errors.New(errors.ErrCodeDocumentTooLarge, "too big")}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/analysis", `{"text":"x"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), string(errors.ErrCodeDocumentTooLarge))
}

func TestStateEndpointsPassState(t *testing.T) {
	svc := &fakeAnalysisService{}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/analysis/india", `{"text":"x","state":"Karnataka"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Karnataka")

	w = doJSON(r, http.MethodPost, "/api/v1/analysis/us", `{"text":"x","state":"Delaware"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Delaware")

	w = doJSON(r, http.MethodPost, "/api/v1/analysis/cross-border", `{"text":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAnalysisNotFound(t *testing.T) {
	svc := &fakeAnalysisService{err: errors.NewNotFound("analysis", "a-9")}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/v1/analysis/a-9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "a-9", svc.lastID)
}

func TestListAnalysesForwardsFilters(t *testing.T) {
	svc := &fakeAnalysisService{listResult: &appanalysis.ListResult{
		Analyses: []*appanalysis.Analysis{{ID: "a-1"}},
		Total:    7, Page: 2, PageSize: 5,
	}}
	r := newAnalysisRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/v1/analysis?status=completed&jurisdiction=INDIA&page=2&page_size=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastList)
	assert.Equal(t, "completed", svc.lastList.Status)
	assert.Equal(t, "INDIA", svc.lastList.Jurisdiction)
	assert.Equal(t, 2, svc.lastList.Page)

	var envelope struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, int64(7), envelope.Pagination.Total)
}
