package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Error      *apiErrorDetail `json:"error,omitempty"`
	Pagination *apiPagination  `json:"pagination,omitempty"`
}

type apiErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiPagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

func serveEnvelope(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, page *apiPagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiEnvelope{Success: true, Data: data, Pagination: page})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiEnvelope{
		Success: false,
		Error:   &apiErrorDetail{Code: code, Message: message},
	})
}

// runCLI executes the root command with the given args and stdin,
// returning combined stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDetectFromStdin(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jurisdiction/detect", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["text"], "stamp duty")
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"jurisdiction": "INDIA",
			"confidence":   0.91,
		}, nil)
	})

	out, err := runCLI(t, "stamp duty payable in Maharashtra",
		"detect", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"jurisdiction": "INDIA"`)
}

func TestDetectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(path, []byte("governed by Delaware law"), 0o644))

	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "governed by Delaware law", body["text"])
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"jurisdiction": "USA"}, nil)
	})

	out, err := runCLI(t, "", "detect", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "USA")
}

func TestAnalyzeSendsRoutingFlags(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analysis", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cross_border", body["type"])
		assert.Equal(t, "Karnataka", body["indian_state"])
		assert.Equal(t, "California", body["us_state"])
		assert.Equal(t, true, body["force"])
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"id": "a-1", "status": "completed",
		}, nil)
	})

	out, err := runCLI(t, "some contract",
		"analyze", "--server", srv.URL,
		"--type", "cross_border",
		"--indian-state", "Karnataka",
		"--us-state", "California",
		"--force")
	require.NoError(t, err)
	assert.Contains(t, out, "a-1")
}

func TestAnalyzeAsyncPrintsQueuedID(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusAccepted, map[string]interface{}{
			"id": "a-9", "status": "pending",
		}, nil)
	})

	out, err := runCLI(t, "text", "analyze", "--server", srv.URL, "--async")
	require.NoError(t, err)
	assert.Equal(t, "queued analysis a-9\n", out)
}

func TestAnalyzeByDocumentIDSkipsStdin(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "d-1", body["document_id"])
		_, hasText := body["text"]
		assert.False(t, hasText)
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"id": "a-2"}, nil)
	})

	_, err := runCLI(t, "", "analyze", "--server", srv.URL, "--document-id", "d-1")
	require.NoError(t, err)
}

func TestGetPropagatesAPIError(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "ANA_NOT_FOUND", "analysis not found")
	})

	_, err := runCLI(t, "", "get", "a-404", "--server", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis not found")
}

func TestListTextOutput(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "completed", r.URL.Query().Get("status"))
		writeEnvelope(w, http.StatusOK, []map[string]interface{}{
			{"id": "a-1", "status": "completed", "jurisdiction": "INDIA", "summary": "ok"},
		}, &apiPagination{Page: 1, PageSize: 20, Total: 1})
	})

	out, err := runCLI(t, "", "list", "--server", srv.URL,
		"--status", "completed", "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "a-1")
	assert.Contains(t, out, "INDIA")
}

func TestSearchForwardsFilters(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "indemnity", q.Get("q"))
		assert.Equal(t, "high", q.Get("risk_level"))
		writeEnvelope(w, http.StatusOK, []map[string]interface{}{{"score": 2.5}}, nil)
	})

	out, err := runCLI(t, "", "search", "indemnity",
		"--server", srv.URL, "--risk-level", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "2.5")
}

func TestDocumentUploadDefaultsTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nda.txt")
	require.NoError(t, os.WriteFile(path, []byte("confidential"), 0o644))

	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nda.txt", body["title"])
		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"id": "d-7", "title": "nda.txt",
		}, nil)
	})

	out, err := runCLI(t, "", "document", "upload", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "d-7")
}

func TestDocumentUploadDuplicate(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"id": "d-1", "duplicate": true,
		}, nil)
	})

	path := filepath.Join(t.TempDir(), "same.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	out, err := runCLI(t, "", "document", "upload", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "already stored as d-1\n", out)
}

func TestDocumentContentPrintsRawText(t *testing.T) {
	srv := serveEnvelope(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/d-1/content", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("full contract text"))
	})

	out, err := runCLI(t, "", "document", "content", "d-1", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "full contract text", out)
}

func TestInvalidOutputFormatRejected(t *testing.T) {
	_, err := runCLI(t, "", "version", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lexbridge")
	assert.Contains(t, out, "go version")
}
