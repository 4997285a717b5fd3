package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/turtacn/LexBridge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/LexBridge-Intelligence/internal/domain/document"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// eventSource identifies this service in published envelopes.
const eventSource = "lexbridge.analysis"

// Service is the application surface the HTTP handlers, CLI and worker
// call. The four direct engine contracts are total functions; Run adds
// persistence, reuse and async dispatch around them.
type Service interface {
	Detect(ctx context.Context, text string) (*legal.JurisdictionResult, error)
	AnalyzeIndia(ctx context.Context, text, state string) (*legal.IndianLegalAnalysis, error)
	AnalyzeUS(ctx context.Context, text, state string) (*legal.USLegalAnalysis, error)
	AnalyzeCrossBorder(ctx context.Context, text, indianState, usState string) (*legal.CrossBorderAnalysis, error)

	Run(ctx context.Context, input *RunInput) (*Analysis, error)
	GetByID(ctx context.Context, id string) (*Analysis, error)
	List(ctx context.Context, input *ListInput) (*ListResult, error)

	// ProcessRequested executes one queued analysis. Called by the
	// worker's kafka handler; a returned error means "retry".
	ProcessRequested(ctx context.Context, payload *kafka.AnalysisRequestedPayload) error
}

// RunInput requests one pipeline run. Either Text or DocumentID is
// required; when both are present Text wins and DocumentID is only
// recorded as provenance.
type RunInput struct {
	Text        string
	DocumentID  string
	Type        domain.Type
	Hint        string
	IndianState string
	USState     string
	Async       bool
	// Force skips completed-result reuse and always runs the engines.
	Force bool
}

// ListInput narrows a listing.
type ListInput struct {
	Status       string
	Type         string
	Jurisdiction string
	DocumentID   string
	Page         int
	PageSize     int
}

// Analysis is the application-level DTO of one run.
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

// ListResult is a page of analyses.
type ListResult struct {
	Analyses   []*Analysis `json:"analyses"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// ResultCache is the slice of the cache the service uses for the
// stateless engine contracts. redis.Cache satisfies it.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// EventPublisher publishes pipeline events. kafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, msg *kafka.ProducerMessage) error
}

// TextStore reads and writes raw document text. minio.DocumentStore
// satisfies it.
type TextStore interface {
	Put(ctx context.Context, req *minio.PutRequest) (*minio.PutResult, error)
	Fetch(ctx context.Context, documentID string) (*minio.FetchResult, error)
}

// SearchIndexer projects completed analyses into the search index.
// opensearch.Indexer satisfies it.
type SearchIndexer interface {
	IndexAnalysis(ctx context.Context, doc *opensearch.AnalysisDocument) error
}

// TaskLocks serializes worker processing per analysis, so concurrent
// deliveries of the same task cannot both pass the terminal-state
// check and run the pipeline twice. redis.LockFactory satisfies it.
type TaskLocks interface {
	NewMutex(name string, opts ...redis.LockOption) redis.DistributedLock
}

// Config holds service tunables.
type Config struct {
	// CacheTTL is how long stateless engine results stay cached.
	CacheTTL time.Duration
	// MaxTextBytes rejects oversized documents before any engine runs.
	MaxTextBytes int64
}

func (c *Config) applyDefaults() {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 15 * time.Minute
	}
	if c.MaxTextBytes <= 0 {
		c.MaxTextBytes = 5 * 1024 * 1024
	}
}

type serviceImpl struct {
	repo      domain.Repository
	documents document.Repository
	orch      *Orchestrator
	cache     ResultCache
	publisher EventPublisher
	store     TextStore
	indexer   SearchIndexer
	locks     TaskLocks
	metrics   *prometheus.AppMetrics
	config    Config
	logger    logging.Logger
}

// ServiceOption wires an optional dependency.
type ServiceOption func(*serviceImpl)

// WithCache enables stateless-result caching.
func WithCache(cache ResultCache) ServiceOption {
	return func(s *serviceImpl) { s.cache = cache }
}

// WithPublisher enables pipeline event publishing.
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *serviceImpl) { s.publisher = p }
}

// WithTextStore enables document-ID text resolution and async text
// handoff through object storage.
func WithTextStore(store TextStore) ServiceOption {
	return func(s *serviceImpl) { s.store = store }
}

// WithDocuments enables implicit document registration on async runs
// submitted with raw text.
func WithDocuments(repo document.Repository) ServiceOption {
	return func(s *serviceImpl) { s.documents = repo }
}

// WithIndexer enables search indexing of completed analyses.
func WithIndexer(indexer SearchIndexer) ServiceOption {
	return func(s *serviceImpl) { s.indexer = indexer }
}

// WithLocks enables per-analysis locking on the worker path.
func WithLocks(locks TaskLocks) ServiceOption {
	return func(s *serviceImpl) { s.locks = locks }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithConfig overrides the service tunables.
func WithConfig(cfg Config) ServiceOption {
	return func(s *serviceImpl) { s.config = cfg }
}

// NewService builds the analysis application service. The repository
// and orchestrator are required; everything else degrades gracefully
// when absent.
func NewService(repo domain.Repository, orch *Orchestrator, logger logging.Logger, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, errors.NewInvalidInput("analysis repository is required")
	}
	if orch == nil {
		return nil, errors.NewInvalidInput("orchestrator is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		repo:   repo,
		orch:   orch,
		logger: logger.Named("analysis-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.config.applyDefaults()
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Stateless engine contracts
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Detect(ctx context.Context, text string) (*legal.JurisdictionResult, error) {
	if err := s.checkSize(text); err != nil {
		return nil, err
	}
	result := &legal.JurisdictionResult{}
	err := s.cached(ctx, "detect", text, result, func() interface{} {
		return s.orch.Detector().Detect(text)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		prometheus.RecordDetection(s.metrics, result.Jurisdiction.String(), result.Confidence)
	}
	return result, nil
}

func (s *serviceImpl) AnalyzeIndia(ctx context.Context, text, state string) (*legal.IndianLegalAnalysis, error) {
	if err := s.checkSize(text); err != nil {
		return nil, err
	}
	result := &legal.IndianLegalAnalysis{}
	err := s.cached(ctx, "india:"+state, text, result, func() interface{} {
		return s.orch.India().Analyze(text, state)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *serviceImpl) AnalyzeUS(ctx context.Context, text, state string) (*legal.USLegalAnalysis, error) {
	if err := s.checkSize(text); err != nil {
		return nil, err
	}
	result := &legal.USLegalAnalysis{}
	err := s.cached(ctx, "us:"+state, text, result, func() interface{} {
		return s.orch.US().Analyze(text, state)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *serviceImpl) AnalyzeCrossBorder(ctx context.Context, text, indianState, usState string) (*legal.CrossBorderAnalysis, error) {
	if err := s.checkSize(text); err != nil {
		return nil, err
	}
	result := &legal.CrossBorderAnalysis{}
	err := s.cached(ctx, "cross:"+indianState+":"+usState, text, result, func() interface{} {
		return s.orch.CrossBorder().Compare(ctx, text, indianState, usState)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cached runs the loader through the result cache when one is wired.
// The engines are pure, so identical input may be served from cache
// without changing observable behavior.
func (s *serviceImpl) cached(ctx context.Context, op, text string, dest interface{}, load func() interface{}) error {
	if s.cache == nil {
		data, err := json.Marshal(load())
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode engine result")
		}
		return json.Unmarshal(data, dest)
	}
	key := "engine:" + op + ":" + digest(text)
	err := s.cache.GetOrSet(ctx, key, dest, s.config.CacheTTL, func(ctx context.Context) (interface{}, error) {
		return load(), nil
	})
	if err != nil {
		// Cache trouble must not fail a pure computation.
		s.logger.Warn("Result cache unavailable; computing directly", logging.Err(err))
		data, merr := json.Marshal(load())
		if merr != nil {
			return errors.Wrap(merr, errors.ErrCodeSerialization, "failed to encode engine result")
		}
		return json.Unmarshal(data, dest)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Orchestrated runs
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Run(ctx context.Context, input *RunInput) (*Analysis, error) {
	if input == nil {
		return nil, errors.NewInvalidInput("run input is required")
	}
	typ := input.Type
	if typ == "" {
		typ = domain.TypeFull
	}
	if !typ.Valid() {
		return nil, errors.NewInvalidInput("unknown analysis type %q", typ)
	}

	text := input.Text
	if text == "" && input.DocumentID != "" {
		fetched, err := s.fetchText(ctx, input.DocumentID)
		if err != nil {
			return nil, err
		}
		text = fetched
	}
	if text == "" && input.DocumentID == "" {
		return nil, errors.New(errors.ErrCodeDocumentEmpty, "either text or document_id is required")
	}
	if err := s.checkSize(text); err != nil {
		return nil, err
	}

	hash := textHash(typ, input.Hint, input.IndianState, input.USState, text)

	// Completed-result reuse: identical input through an identical
	// pipeline yields an identical result, so the stored run is
	// returned as-is.
	if !input.Force {
		if existing, err := s.repo.FindByTextHash(ctx, typ, hash); err == nil {
			if s.metrics != nil {
				prometheus.RecordCacheAccess(s.metrics, "analysis_reuse", true)
			}
			return toDTO(existing), nil
		}
		if s.metrics != nil {
			prometheus.RecordCacheAccess(s.metrics, "analysis_reuse", false)
		}
	}

	agg, err := domain.NewRequest(typ, hash, input.Async)
	if err != nil {
		return nil, err
	}
	agg.WithRouting(input.Hint, input.IndianState, input.USState)

	documentID := input.DocumentID
	if input.Async && documentID == "" {
		// Async runs hand text to the worker through object storage,
		// registered as a first-class document.
		documentID, err = s.registerDocument(ctx, text)
		if err != nil {
			return nil, err
		}
	}
	if documentID != "" {
		agg.WithDocument(common.ID(documentID))
	}

	if err := s.repo.Create(ctx, agg); err != nil {
		return nil, err
	}

	if input.Async {
		s.publishEvents(ctx, agg)
		s.logger.Info("Queued async analysis",
			logging.String("analysis_id", string(agg.ID)),
			logging.String("type", string(typ)))
		return toDTO(agg), nil
	}

	agg.DrainEvents() // sync runs produce no requested event on the bus
	if err := s.execute(ctx, agg, text); err != nil {
		return nil, err
	}
	return toDTO(agg), nil
}

// execute runs the orchestrator over one pending aggregate and records
// the outcome. Shared by the sync path and the worker.
func (s *serviceImpl) execute(ctx context.Context, agg *domain.Analysis, text string) error {
	started := time.Now()
	report, review := s.runEngines(ctx, agg, text)

	resultJSON, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode analysis report")
	}

	outcome := domain.Outcome{
		Jurisdiction: report.PrimaryJurisdiction(),
		Confidence:   detectionConfidence(report),
		RiskLevel:    riskOf(report),
		Summary:      summarize(agg.Type, report),
		Result:       resultJSON,
		LLMReviewed:  review.Consulted,
		LLMAdopted:   review.Adopted,
	}
	if err := agg.Complete(outcome); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, agg); err != nil {
		return err
	}

	if s.metrics != nil {
		prometheus.RecordAnalysis(s.metrics, string(agg.Type), outcome.Jurisdiction.String(), time.Since(started), nil)
		if review.Consulted {
			outcomeLabel := "ignored"
			if review.Adopted {
				outcomeLabel = "adopted"
			}
			if review.Err != nil {
				outcomeLabel = "failed"
			}
			prometheus.RecordLLMReview(s.metrics, "counsel", outcomeLabel, 0)
		}
	}

	s.publishEvents(ctx, agg)
	s.indexCompleted(ctx, agg, report)
	return nil
}

// runEngines dispatches per analysis type. TypeFull routes through the
// orchestrator; the direct types call their engine and wrap the result
// in a report with no detection section.
func (s *serviceImpl) runEngines(ctx context.Context, agg *domain.Analysis, text string) (*legal.AnalysisReport, *Review) {
	switch agg.Type {
	case domain.TypeDetect:
		return &legal.AnalysisReport{Detection: s.orch.Detector().Detect(text)}, &Review{}
	case domain.TypeIndia:
		return &legal.AnalysisReport{India: s.orch.India().Analyze(text, agg.IndianState)}, &Review{}
	case domain.TypeUS:
		return &legal.AnalysisReport{US: s.orch.US().Analyze(text, agg.USState)}, &Review{}
	case domain.TypeCrossBorder:
		return &legal.AnalysisReport{
			CrossBorder: s.orch.CrossBorder().Compare(ctx, text, agg.IndianState, agg.USState),
		}, &Review{}
	default:
		return s.orch.Run(ctx, text, agg.Hint, agg.IndianState, agg.USState)
	}
}

func (s *serviceImpl) GetByID(ctx context.Context, id string) (*Analysis, error) {
	if err := common.ID(id).Validate(); err != nil {
		return nil, errors.NewInvalidInput("invalid analysis ID %q", id)
	}
	agg, err := s.repo.GetByID(ctx, common.ID(id))
	if err != nil {
		return nil, err
	}
	return toDTO(agg), nil
}

func (s *serviceImpl) List(ctx context.Context, input *ListInput) (*ListResult, error) {
	if input == nil {
		input = &ListInput{}
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	size := input.PageSize
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	filter := domain.ListFilter{
		Status:     common.Status(input.Status),
		Type:       domain.Type(input.Type),
		Pagination: common.Pagination{Page: page, PageSize: size},
	}
	if input.Jurisdiction != "" {
		filter.Jurisdiction = legal.ParseJurisdiction(input.Jurisdiction)
	}
	if input.DocumentID != "" {
		id := common.ID(input.DocumentID)
		filter.DocumentID = &id
	}

	aggs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := &ListResult{
		Analyses:   make([]*Analysis, 0, len(aggs)),
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
	for _, agg := range aggs {
		result.Analyses = append(result.Analyses, toDTO(agg))
	}
	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Worker path
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) ProcessRequested(ctx context.Context, payload *kafka.AnalysisRequestedPayload) error {
	if payload == nil || payload.AnalysisID == "" {
		return errors.NewInvalidInput("requested payload has no analysis ID")
	}
	if s.locks != nil {
		mu := s.locks.NewMutex("analysis:"+payload.AnalysisID, redis.WithWatchdog(true))
		held, err := mu.TryLock(ctx)
		if err != nil {
			// Lock service outage degrades to optimistic-lock-only
			// idempotency rather than stalling the queue.
			s.logger.Warn("Task lock unavailable, proceeding unlocked",
				logging.String("analysis_id", payload.AnalysisID), logging.Err(err))
		} else if !held {
			// Another worker owns this analysis; commit the duplicate
			// away. If the owner dies mid-run the lock TTL expires and
			// the redelivery after it picks the task back up.
			s.logger.Info("Analysis locked by another worker, skipping",
				logging.String("analysis_id", payload.AnalysisID))
			return nil
		} else {
			defer func() {
				unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mu.Unlock(unlockCtx); err != nil {
					s.logger.Warn("Failed to release task lock",
						logging.String("analysis_id", payload.AnalysisID), logging.Err(err))
				}
			}()
		}
	}
	return s.runRequested(ctx, payload)
}

func (s *serviceImpl) runRequested(ctx context.Context, payload *kafka.AnalysisRequestedPayload) error {
	agg, err := s.repo.GetByID(ctx, common.ID(payload.AnalysisID))
	if err != nil {
		if errors.IsNotFound(err) {
			// The row is gone; retrying cannot help.
			s.logger.Warn("Dropping request for unknown analysis",
				logging.String("analysis_id", payload.AnalysisID))
			return nil
		}
		return err
	}
	if agg.Terminal() {
		// Duplicate delivery after completion is expected at
		// least-once semantics; drop it.
		return nil
	}

	if agg.Status == common.StatusPending {
		if err := agg.Start(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, agg); err != nil {
			return err
		}
	}

	text, err := s.resolveWorkerText(ctx, agg)
	if err != nil {
		if errors.IsNotFound(err) {
			return s.failTerminally(ctx, agg, err)
		}
		return err
	}
	return s.execute(ctx, agg, text)
}

func (s *serviceImpl) resolveWorkerText(ctx context.Context, agg *domain.Analysis) (string, error) {
	if agg.DocumentID == nil {
		return "", errors.New(errors.ErrCodeDocumentNotFound, "analysis has no document to load text from")
	}
	return s.fetchText(ctx, string(*agg.DocumentID))
}

func (s *serviceImpl) fetchText(ctx context.Context, documentID string) (string, error) {
	if s.store == nil {
		return "", errors.NewUnavailable("document store")
	}
	fetched, err := s.store.Fetch(ctx, documentID)
	if err != nil {
		return "", err
	}
	return string(fetched.Text), nil
}

// failTerminally records a non-retryable failure and reports it on the
// failed topic. The returned error is nil so the consumer commits.
func (s *serviceImpl) failTerminally(ctx context.Context, agg *domain.Analysis, cause error) error {
	code := string(errors.GetCode(cause))
	if err := agg.Fail(code, cause.Error()); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, agg); err != nil {
		return err
	}
	s.publishEvents(ctx, agg)
	s.logger.Error("Analysis failed terminally",
		logging.String("analysis_id", string(agg.ID)),
		logging.String("code", code))
	return nil
}

// registerDocument stores raw async text as a document so the worker
// can fetch it by ID.
func (s *serviceImpl) registerDocument(ctx context.Context, text string) (string, error) {
	if s.store == nil {
		return "", errors.NewUnavailable("document store")
	}
	doc, err := document.New("Analysis input "+time.Now().UTC().Format("2006-01-02 15:04:05"), text, document.SourceAPI)
	if err != nil {
		return "", err
	}
	if s.documents != nil {
		if existing, err := s.documents.FindByContentHash(ctx, doc.ContentSHA256); err == nil {
			return string(existing.ID), nil
		}
		if err := s.documents.Create(ctx, doc); err != nil {
			return "", err
		}
	}
	if _, err := s.store.Put(ctx, &minio.PutRequest{
		DocumentID:  string(doc.ID),
		Text:        []byte(text),
		ContentType: document.DefaultContentType,
	}); err != nil {
		return "", err
	}
	return string(doc.ID), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Side effects
// ─────────────────────────────────────────────────────────────────────────────

// publishEvents drains the aggregate's recorded events onto the bus.
// Publishing is best-effort: the database row is the source of truth
// and a bus outage must not fail a finished analysis.
func (s *serviceImpl) publishEvents(ctx context.Context, agg *domain.Analysis) {
	events := agg.DrainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	for _, ev := range events {
		topic, envelope, err := s.envelopeFor(agg, ev)
		if err != nil {
			s.logger.Warn("Skipping unpublishable event", logging.Err(err))
			continue
		}
		if topic == "" {
			continue
		}
		msg, err := envelope.ToMessage(topic, string(agg.ID))
		if err != nil {
			s.logger.Warn("Skipping unpublishable event", logging.Err(err))
			continue
		}
		if err := s.publisher.Publish(ctx, msg); err != nil {
			s.logger.Warn("Event publish failed",
				logging.String("topic", topic),
				logging.String("analysis_id", string(agg.ID)),
				logging.Err(err))
		}
	}
}

func (s *serviceImpl) envelopeFor(agg *domain.Analysis, ev common.DomainEvent) (string, *kafka.EventEnvelope, error) {
	switch ev.(type) {
	case *domain.RequestedEvent:
		payload := kafka.AnalysisRequestedPayload{
			AnalysisID:   string(agg.ID),
			AnalysisType: string(agg.Type),
			TextHash:     agg.TextHash,
			Hint:         agg.Hint,
			RequestedAt:  agg.RequestedAt,
		}
		if agg.DocumentID != nil {
			payload.DocumentID = string(*agg.DocumentID)
		}
		env, err := kafka.NewEventEnvelope(kafka.EventTypeAnalysisRequested, eventSource, payload)
		return kafka.TopicAnalysisRequest, env, err
	case *domain.CompletedEvent:
		payload := kafka.AnalysisCompletedPayload{
			AnalysisID:   string(agg.ID),
			AnalysisType: string(agg.Type),
			Jurisdiction: agg.Jurisdiction.String(),
			Confidence:   agg.Confidence,
			RiskLevel:    string(agg.RiskLevel),
			Summary:      agg.Summary,
			LLMReviewed:  agg.LLMReviewed,
			LLMAdopted:   agg.LLMAdopted,
		}
		if agg.DocumentID != nil {
			payload.DocumentID = string(*agg.DocumentID)
		}
		if agg.CompletedAt != nil {
			payload.CompletedAt = *agg.CompletedAt
		}
		env, err := kafka.NewEventEnvelope(kafka.EventTypeAnalysisCompleted, eventSource, payload)
		return kafka.TopicAnalysisCompleted, env, err
	case *domain.FailedEvent:
		payload := kafka.AnalysisFailedPayload{
			AnalysisID:   string(agg.ID),
			AnalysisType: string(agg.Type),
			ErrorCode:    agg.ErrorCode,
			ErrorMessage: agg.ErrorMessage,
		}
		if agg.CompletedAt != nil {
			payload.FailedAt = *agg.CompletedAt
		}
		env, err := kafka.NewEventEnvelope(kafka.EventTypeAnalysisFailed, eventSource, payload)
		return kafka.TopicAnalysisFailed, env, err
	default:
		return "", nil, nil
	}
}

// indexCompleted projects the finished run into the search index.
// Best-effort, same rationale as publishing.
func (s *serviceImpl) indexCompleted(ctx context.Context, agg *domain.Analysis, report *legal.AnalysisReport) {
	if s.indexer == nil || agg.Status != common.StatusCompleted {
		return
	}
	doc := &opensearch.AnalysisDocument{
		AnalysisID:   string(agg.ID),
		AnalysisType: string(agg.Type),
		Jurisdiction: agg.Jurisdiction.String(),
		RiskLevel:    string(agg.RiskLevel),
		Confidence:   agg.Confidence,
		Summary:      agg.Summary,
		LLMReviewed:  agg.LLMReviewed,
	}
	if agg.DocumentID != nil {
		doc.DocumentID = string(*agg.DocumentID)
	}
	if agg.CompletedAt != nil {
		doc.CompletedAt = *agg.CompletedAt
	}
	if report.India != nil {
		doc.DocumentType = string(report.India.DocumentType)
		doc.IndianState = report.India.State
	}
	if report.US != nil {
		doc.USState = report.US.GoverningState
	}
	if err := s.indexer.IndexAnalysis(ctx, doc); err != nil {
		s.logger.Warn("Search indexing failed",
			logging.String("analysis_id", string(agg.ID)), logging.Err(err))
		if s.metrics != nil {
			prometheus.RecordIndexOperation(s.metrics, "index_analysis", err)
		}
		return
	}
	if s.metrics != nil {
		prometheus.RecordIndexOperation(s.metrics, "index_analysis", nil)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) checkSize(text string) error {
	if int64(len(text)) > s.config.MaxTextBytes {
		return errors.Newf(errors.ErrCodeDocumentTooLarge,
			"document text of %d bytes exceeds the %d byte limit",
			len(text), s.config.MaxTextBytes)
	}
	return nil
}

// textHash fingerprints one run's full input so identical requests can
// reuse a completed result. Routing inputs participate because they
// change the output.
func textHash(typ domain.Type, hint, indianState, usState, text string) string {
	h := sha256.New()
	h.Write([]byte(string(typ)))
	h.Write([]byte{0})
	h.Write([]byte(hint))
	h.Write([]byte{0})
	h.Write([]byte(indianState))
	h.Write([]byte{0})
	h.Write([]byte(usState))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func detectionConfidence(report *legal.AnalysisReport) float64 {
	if report.Detection == nil {
		return 0
	}
	return report.Detection.Confidence
}

// riskOf derives the denormalized risk rating from the populated
// section of the report.
func riskOf(report *legal.AnalysisReport) common.RiskLevel {
	switch {
	case report.CrossBorder != nil:
		return report.CrossBorder.OverallRisk
	case report.India != nil && report.India.Compliance != nil:
		return complianceToRisk(report.India.Compliance.Risk)
	case report.US != nil && report.US.Compliance != nil:
		return complianceToRisk(report.US.Compliance.Risk)
	default:
		return ""
	}
}

func complianceToRisk(risk legal.ComplianceRisk) common.RiskLevel {
	switch risk {
	case legal.ComplianceRiskHigh:
		return common.RiskHigh
	case legal.ComplianceRiskMedium:
		return common.RiskMedium
	case legal.ComplianceRiskLow:
		return common.RiskLow
	default:
		return ""
	}
}

// summarize writes the one-line listing summary for a completed run.
func summarize(typ domain.Type, report *legal.AnalysisReport) string {
	switch {
	case report.CrossBorder != nil:
		return fmt.Sprintf("Cross-border analysis: overall risk %s; recommended %s",
			report.CrossBorder.OverallRisk, report.CrossBorder.RecommendedGoverningLaw)
	case report.India != nil:
		summary := fmt.Sprintf("Indian %s in %s", report.India.DocumentType, report.India.State)
		if report.India.Compliance != nil {
			summary += fmt.Sprintf("; compliance risk %s", report.India.Compliance.Risk)
		}
		return summary
	case report.US != nil:
		summary := fmt.Sprintf("US analysis under %s law", report.US.GoverningState)
		if report.US.Compliance != nil {
			summary += fmt.Sprintf("; compliance risk %s", report.US.Compliance.Risk)
		}
		return summary
	case report.Detection != nil:
		return fmt.Sprintf("Jurisdiction %s detected at %.2f confidence",
			report.Detection.Jurisdiction, report.Detection.Confidence)
	default:
		return "No analysis produced"
	}
}

func toDTO(agg *domain.Analysis) *Analysis {
	dto := &Analysis{
		ID:           string(agg.ID),
		Type:         string(agg.Type),
		Status:       string(agg.Status),
		Async:        agg.Async,
		Jurisdiction: agg.Jurisdiction.String(),
		Confidence:   agg.Confidence,
		RiskLevel:    string(agg.RiskLevel),
		Summary:      agg.Summary,
		Report:       agg.Result,
		LLMReviewed:  agg.LLMReviewed,
		LLMAdopted:   agg.LLMAdopted,
		ErrorCode:    agg.ErrorCode,
		ErrorMessage: agg.ErrorMessage,
		RequestedAt:  agg.RequestedAt,
		CompletedAt:  agg.CompletedAt,
	}
	if agg.DocumentID != nil {
		dto.DocumentID = string(*agg.DocumentID)
	}
	return dto
}
