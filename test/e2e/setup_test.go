// Package e2e_test runs smoke tests against a deployed
// LexBridge-Intelligence stack. The tests are skipped unless
// LEXBRIDGE_E2E_BASE_URL points at a running API server; set
// LEXBRIDGE_E2E_API_KEY when the deployment sits behind a gateway.
package e2e_test

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexBridge-Intelligence/pkg/client"
)

const (
	envBaseURL = "LEXBRIDGE_E2E_BASE_URL"
	envAPIKey  = "LEXBRIDGE_E2E_API_KEY"
)

// newE2EClient skips the test unless the environment names a target.
func newE2EClient(t *testing.T) *client.Client {
	t.Helper()
	baseURL := os.Getenv(envBaseURL)
	if baseURL == "" {
		t.Skipf("%s not set; skipping e2e test", envBaseURL)
	}

	opts := []client.Option{client.WithTimeout(2 * time.Minute)}
	if key := os.Getenv(envAPIKey); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	c, err := client.NewClient(baseURL, opts...)
	require.NoError(t, err)
	return c
}

// waitReady blocks until /readyz answers or the deadline passes.
func waitReady(t *testing.T, baseURL string) {
	t.Helper()
	deadline := time.Now().Add(time.Minute)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/readyz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(2 * time.Second)
	}
	t.Fatal("deployment never became ready")
}

func e2eContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)
	return ctx
}
