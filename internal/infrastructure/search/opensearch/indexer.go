package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// analysesIndexSuffix names the analyses index under the configured
// prefix, e.g. "legal-analyses".
const analysesIndexSuffix = "analyses"

// analysesMapping is the index schema. Summary is the only free-text
// field; everything else is a filterable keyword or scalar.
const analysesMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 1
  },
  "mappings": {
    "properties": {
      "analysis_id":   {"type": "keyword"},
      "document_id":   {"type": "keyword"},
      "analysis_type": {"type": "keyword"},
      "jurisdiction":  {"type": "keyword"},
      "risk_level":    {"type": "keyword"},
      "document_type": {"type": "keyword"},
      "indian_state":  {"type": "keyword"},
      "us_state":      {"type": "keyword"},
      "confidence":    {"type": "float"},
      "summary":       {"type": "text"},
      "llm_reviewed":  {"type": "boolean"},
      "completed_at":  {"type": "date"}
    }
  }
}`

// AnalysisDocument is the denormalized projection of one completed
// analysis that search queries run against.
type AnalysisDocument struct {
	AnalysisID   string    `json:"analysis_id"`
	DocumentID   string    `json:"document_id,omitempty"`
	AnalysisType string    `json:"analysis_type"`
	Jurisdiction string    `json:"jurisdiction"`
	RiskLevel    string    `json:"risk_level,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	IndianState  string    `json:"indian_state,omitempty"`
	USState      string    `json:"us_state,omitempty"`
	Confidence   float64   `json:"confidence"`
	Summary      string    `json:"summary,omitempty"`
	LLMReviewed  bool      `json:"llm_reviewed"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Indexer writes analysis documents into the analyses index.
type Indexer struct {
	client *Client
	index  string
	logger logging.Logger
}

// NewIndexer builds an Indexer over the client's configured prefix.
func NewIndexer(client *Client, logger logging.Logger) *Indexer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Indexer{
		client: client,
		index:  client.config.IndexPrefix + "-" + analysesIndexSuffix,
		logger: logger,
	}
}

// Index returns the index name the indexer writes to.
func (i *Indexer) Index() string {
	return i.index
}

// EnsureIndex creates the analyses index when absent. Called once at
// startup; a corrupted mapping fails the process, not a request.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.client.api.IndexExists(ctx, i.index)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "failed to check analyses index")
	}
	if exists {
		return nil
	}
	if err := i.client.api.CreateIndex(ctx, i.index, strings.NewReader(analysesMapping)); err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "failed to create analyses index")
	}
	i.logger.Info("Created analyses index", logging.String("index", i.index))
	return nil
}

// IndexAnalysis upserts one analysis document keyed by analysis ID.
func (i *Indexer) IndexAnalysis(ctx context.Context, doc *AnalysisDocument) error {
	if doc == nil || doc.AnalysisID == "" {
		return errors.NewInvalidInput("analysis document requires an analysis ID")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal analysis document")
	}
	if err := i.client.api.IndexDocument(ctx, i.index, doc.AnalysisID, bytes.NewReader(body)); err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "failed to index analysis")
	}
	i.logger.Debug("Indexed analysis",
		logging.String("analysis_id", doc.AnalysisID),
		logging.String("jurisdiction", doc.Jurisdiction))
	return nil
}

// DeleteAnalysis removes one analysis document. Deleting an absent
// document is not an error.
func (i *Indexer) DeleteAnalysis(ctx context.Context, analysisID string) error {
	if analysisID == "" {
		return errors.NewInvalidInput("analysis ID is required")
	}
	if err := i.client.api.DeleteDocument(ctx, i.index, analysisID); err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "failed to delete analysis document")
	}
	return nil
}
