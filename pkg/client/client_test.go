package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondEnvelope(w http.ResponseWriter, status int, data interface{}, page *Page) {
	raw, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:    true,
		Data:       raw,
		Pagination: page,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorDetail{Code: code, Message: message},
	})
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)

	_, err = NewClient("ftp://example.com")
	require.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClientSendsHeaders(t *testing.T) {
	var gotAuth, gotAgent, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		respondEnvelope(w, http.StatusOK, map[string]string{}, nil)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithAPIKey("secret"))
	require.NoError(t, err)
	_, err = c.get(context.Background(), "/x", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Contains(t, gotAgent, "lexbridge-go-sdk/")
	assert.NotEmpty(t, gotRequestID)
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "ANA_NOT_FOUND", "no such analysis")
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = c.get(context.Background(), "/x", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "ANA_NOT_FOUND", apiErr.Code)
	assert.Equal(t, "no such analysis", apiErr.Message)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			respondError(w, http.StatusInternalServerError, "COMMON_INTERNAL", "boom")
			return
		}
		respondEnvelope(w, http.StatusOK, map[string]string{"ok": "yes"}, nil)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	var result map[string]string
	_, err = c.get(context.Background(), "/x", &result)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "yes", result["ok"])
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		respondError(w, http.StatusBadRequest, "COMMON_INVALID_INPUT", "bad")
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)
	_, err = c.get(context.Background(), "/x", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientReturnsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondEnvelope(w, http.StatusOK, []string{"a"}, &Page{Page: 2, PageSize: 10, Total: 42})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	var data []string
	page, err := c.get(context.Background(), "/x", &data)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, int64(42), page.Total)
	assert.Equal(t, []string{"a"}, data)
}
