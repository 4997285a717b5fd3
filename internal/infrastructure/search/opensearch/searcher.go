package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchQuery narrows a full-text search over analyses. Query matches
// the summary; the remaining fields are exact filters. Zero values
// mean "any".
type SearchQuery struct {
	Query        string `json:"query,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	RiskLevel    string `json:"risk_level,omitempty"`
	AnalysisType string `json:"analysis_type,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Page         int    `json:"page,omitempty"`
	PageSize     int    `json:"page_size,omitempty"`
}

// SearchHit is one matched analysis with its relevance score.
type SearchHit struct {
	Score    float64          `json:"score"`
	Analysis AnalysisDocument `json:"analysis"`
}

// SearchResult is a page of matches.
type SearchResult struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Hits     []SearchHit `json:"hits"`
	Took     int64       `json:"took_ms"`
}

// Searcher runs queries against the analyses index.
type Searcher struct {
	client *Client
	index  string
	logger logging.Logger
}

// NewSearcher builds a Searcher over the client's configured prefix.
func NewSearcher(client *Client, logger logging.Logger) *Searcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Searcher{
		client: client,
		index:  client.config.IndexPrefix + "-" + analysesIndexSuffix,
		logger: logger,
	}
}

// Search runs one query. An empty free-text query with no filters
// returns the newest analyses.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	body, err := json.Marshal(buildQueryBody(q, page, size))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal search query")
	}

	started := time.Now()
	raw, err := s.client.api.Search(ctx, s.index, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchError, "search failed")
	}

	result := &SearchResult{
		Total:    raw.Total,
		Page:     page,
		PageSize: size,
		Hits:     make([]SearchHit, 0, len(raw.Hits)),
		Took:     time.Since(started).Milliseconds(),
	}
	for _, hit := range raw.Hits {
		var doc AnalysisDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			s.logger.Warn("Skipping unreadable search hit",
				logging.String("id", hit.ID), logging.Err(err))
			continue
		}
		result.Hits = append(result.Hits, SearchHit{Score: hit.Score, Analysis: doc})
	}

	s.logger.Debug("Search completed",
		logging.String("query", q.Query),
		logging.Int64("total", result.Total),
		logging.Int64("took_ms", result.Took))
	return result, nil
}

// buildQueryBody assembles the bool query: a match on summary when a
// free-text query is present, term filters for the exact fields, and
// recency sorting as the tiebreak.
func buildQueryBody(q SearchQuery, page, size int) map[string]interface{} {
	var must []map[string]interface{}
	if q.Query != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"summary": map[string]interface{}{
					"query":     q.Query,
					"operator":  "or",
					"fuzziness": "AUTO",
				},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	var filter []map[string]interface{}
	addTerm := func(field, value string) {
		if value != "" {
			filter = append(filter, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	addTerm("jurisdiction", q.Jurisdiction)
	addTerm("risk_level", q.RiskLevel)
	addTerm("analysis_type", q.AnalysisType)
	addTerm("document_type", q.DocumentType)

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  (page - 1) * size,
		"size":  size,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"completed_at": map[string]interface{}{"order": "desc"}},
		},
	}
}
