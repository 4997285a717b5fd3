// Package opensearch backs the platform's full-text search over
// completed analyses. One index, ensured at startup, written when an
// analysis completes, queried by the search API.
package opensearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// SearchAPI is the slice of the OpenSearch client the platform
// touches, abstracted for tests.
type SearchAPI interface {
	Ping(ctx context.Context) error
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, mapping io.Reader) error
	IndexDocument(ctx context.Context, index, id string, body io.Reader) error
	DeleteDocument(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, body io.Reader) (*RawSearchResult, error)
}

// RawSearchResult is the engine-neutral slice of a search response the
// searcher consumes.
type RawSearchResult struct {
	Total int64
	Hits  []RawHit
}

// RawHit is one matched document.
type RawHit struct {
	ID     string
	Score  float64
	Source json.RawMessage
}

// osAPI adapts *opensearchapi.Client to SearchAPI.
type osAPI struct {
	client *opensearchapi.Client
}

func (a *osAPI) Ping(ctx context.Context) error {
	resp, err := a.client.Ping(ctx, nil)
	if err != nil {
		return err
	}
	if resp != nil && resp.IsError() {
		return errors.Newf(errors.ErrCodeSearchError, "opensearch ping returned %s", resp.Status())
	}
	return nil
}

func (a *osAPI) IndexExists(ctx context.Context, index string) (bool, error) {
	resp, err := a.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{Indices: []string{index}})
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resp != nil && resp.StatusCode == http.StatusOK, nil
}

func (a *osAPI) CreateIndex(ctx context.Context, index string, mapping io.Reader) error {
	_, err := a.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{Index: index, Body: mapping})
	return err
}

func (a *osAPI) IndexDocument(ctx context.Context, index, id string, body io.Reader) error {
	_, err := a.client.Index(ctx, opensearchapi.IndexReq{Index: index, DocumentID: id, Body: body})
	return err
}

func (a *osAPI) DeleteDocument(ctx context.Context, index, id string) error {
	resp, err := a.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{Index: index, DocumentID: id})
	if resp != nil {
		if raw := resp.Inspect().Response; raw != nil && raw.StatusCode == http.StatusNotFound {
			return nil
		}
	}
	return err
}

func (a *osAPI) Search(ctx context.Context, index string, body io.Reader) (*RawSearchResult, error) {
	resp, err := a.client.Search(ctx, &opensearchapi.SearchReq{Indices: []string{index}, Body: body})
	if err != nil {
		return nil, err
	}
	out := &RawSearchResult{Total: int64(resp.Hits.Total.Value)}
	for _, hit := range resp.Hits.Hits {
		out.Hits = append(out.Hits, RawHit{
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
		})
	}
	return out, nil
}

// Config holds OpenSearch connection settings.
type Config struct {
	Addresses          []string
	Username           string
	Password           string
	InsecureSkipVerify bool
	IndexPrefix        string
	MaxRetries         int
	RetryBackoff       time.Duration
	RequestTimeout     time.Duration
}

func applyDefaults(cfg *Config) {
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.IndexPrefix == "" {
		cfg.IndexPrefix = "legal"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
}

// Client wraps the cluster connection.
type Client struct {
	api    SearchAPI
	config Config
	logger logging.Logger
}

// NewClient connects and verifies reachability with a ping.
func NewClient(cfg Config, logger logging.Logger) (*Client, error) {
	applyDefaults(&cfg)

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	osClient, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:     cfg.Addresses,
			Username:      cfg.Username,
			Password:      cfg.Password,
			MaxRetries:    cfg.MaxRetries,
			RetryBackoff:  func(int) time.Duration { return cfg.RetryBackoff },
			RetryOnStatus: []int{429, 502, 503, 504},
			Transport:     transport,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchError, "failed to build opensearch client")
	}

	return newClientWithAPI(&osAPI{client: osClient}, cfg, logger)
}

func newClientWithAPI(api SearchAPI, cfg Config, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	applyDefaults(&cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := api.Ping(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "opensearch connection failed")
	}

	logger.Info("OpenSearch client connected",
		logging.Int("addresses", len(cfg.Addresses)),
		logging.String("index_prefix", cfg.IndexPrefix))
	return &Client{api: api, config: cfg, logger: logger}, nil
}

// Ping verifies the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "opensearch ping failed")
	}
	return nil
}

// HealthCheck reports component state for readiness probes.
func (c *Client) HealthCheck(ctx context.Context) common.ComponentHealth {
	started := time.Now()
	health := common.ComponentHealth{Name: "opensearch", Status: common.HealthUp}
	if err := c.api.Ping(ctx); err != nil {
		health.Status = common.HealthDown
		health.Message = err.Error()
	}
	health.Latency = time.Since(started)
	return health
}
