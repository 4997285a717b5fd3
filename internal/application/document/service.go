// Package document is the application layer over the Document bounded
// context: upload with content-hash deduplication, metadata and content
// retrieval, and listing. Blobs live in object storage; rows carry the
// identity-bearing metadata.
package document

import (
	"context"

	domain "github.com/turtacn/LexBridge-Intelligence/internal/domain/document"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// Service is the document application surface.
type Service interface {
	// Upload stores text as a document. An upload whose content hash
	// matches an existing document returns that document unchanged.
	Upload(ctx context.Context, input *UploadInput) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	// GetContent returns the stored text of one document.
	GetContent(ctx context.Context, id string) (string, error)
	List(ctx context.Context, page, pageSize int) (*ListResult, error)
}

// UploadInput carries one upload.
type UploadInput struct {
	Title   string
	Content string
	Source  string
}

// Document is the application-level DTO.
type Document struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	ContentType   string           `json:"content_type"`
	SizeBytes     int64            `json:"size_bytes"`
	ContentSHA256 string           `json:"content_sha256"`
	Source        string           `json:"source"`
	CreatedAt     common.Timestamp `json:"created_at"`
	// Duplicate marks an upload that matched an existing document.
	Duplicate bool `json:"duplicate,omitempty"`
}

// ListResult is a page of documents.
type ListResult struct {
	Documents  []*Document `json:"documents"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// TextStore is the slice of object storage this service uses.
// minio.DocumentStore satisfies it.
type TextStore interface {
	Put(ctx context.Context, req *minio.PutRequest) (*minio.PutResult, error)
	Fetch(ctx context.Context, documentID string) (*minio.FetchResult, error)
}

type serviceImpl struct {
	repo         domain.Repository
	store        TextStore
	metrics      *prometheus.AppMetrics
	maxTextBytes int64
	logger       logging.Logger
}

// ServiceOption configures the service.
type ServiceOption func(*serviceImpl)

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithMaxTextBytes overrides the upload size limit.
func WithMaxTextBytes(limit int64) ServiceOption {
	return func(s *serviceImpl) {
		if limit > 0 {
			s.maxTextBytes = limit
		}
	}
}

// NewService builds the document application service. Repository and
// store are both required: a document row without its blob is useless.
func NewService(repo domain.Repository, store TextStore, logger logging.Logger, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, errors.NewInvalidInput("document repository is required")
	}
	if store == nil {
		return nil, errors.NewInvalidInput("document store is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		repo:         repo,
		store:        store,
		maxTextBytes: 5 * 1024 * 1024,
		logger:       logger.Named("document-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *serviceImpl) Upload(ctx context.Context, input *UploadInput) (*Document, error) {
	if input == nil {
		return nil, errors.NewInvalidInput("upload input is required")
	}
	if int64(len(input.Content)) > s.maxTextBytes {
		return nil, errors.Newf(errors.ErrCodeDocumentTooLarge,
			"document of %d bytes exceeds the %d byte limit", len(input.Content), s.maxTextBytes)
	}

	// Content-hash deduplication before any row or blob is written.
	if existing, err := s.repo.FindByContentHash(ctx, domain.HashContent(input.Content)); err == nil {
		if s.metrics != nil {
			prometheus.RecordDocumentOperation(s.metrics, "upload_dedup", nil)
		}
		dto := toDTO(existing)
		dto.Duplicate = true
		return dto, nil
	}

	doc, err := domain.New(input.Title, input.Content, input.Source)
	if err != nil {
		return nil, err
	}

	put, err := s.store.Put(ctx, &minio.PutRequest{
		DocumentID:  string(doc.ID),
		Text:        []byte(input.Content),
		ContentType: doc.ContentType,
		Metadata:    map[string]string{"title": doc.Title},
	})
	if err != nil {
		s.recordOp("upload", err)
		return nil, err
	}
	doc.AttachStorageKey(put.Key)

	if err := s.repo.Create(ctx, doc); err != nil {
		s.recordOp("upload", err)
		return nil, err
	}

	s.recordOp("upload", nil)
	if s.metrics != nil {
		prometheus.RecordDocumentSize(s.metrics, doc.SizeBytes)
	}
	s.logger.Info("Document uploaded",
		logging.String("document_id", string(doc.ID)),
		logging.Int64("size_bytes", doc.SizeBytes),
		logging.String("source", doc.Source))
	return toDTO(doc), nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (*Document, error) {
	if err := common.ID(id).Validate(); err != nil {
		return nil, errors.NewInvalidInput("invalid document ID %q", id)
	}
	doc, err := s.repo.GetByID(ctx, common.ID(id))
	if err != nil {
		return nil, err
	}
	return toDTO(doc), nil
}

func (s *serviceImpl) GetContent(ctx context.Context, id string) (string, error) {
	if err := common.ID(id).Validate(); err != nil {
		return "", errors.NewInvalidInput("invalid document ID %q", id)
	}
	// The row check comes first so a missing document reads as 404,
	// not as a storage error.
	if _, err := s.repo.GetByID(ctx, common.ID(id)); err != nil {
		return "", err
	}
	fetched, err := s.store.Fetch(ctx, id)
	if err != nil {
		s.recordOp("fetch_content", err)
		return "", err
	}
	s.recordOp("fetch_content", nil)
	return string(fetched.Text), nil
}

func (s *serviceImpl) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	docs, total, err := s.repo.List(ctx, common.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	result := &ListResult{
		Documents:  make([]*Document, 0, len(docs)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	for _, doc := range docs {
		result.Documents = append(result.Documents, toDTO(doc))
	}
	return result, nil
}

func (s *serviceImpl) recordOp(operation string, err error) {
	if s.metrics != nil {
		prometheus.RecordDocumentOperation(s.metrics, operation, err)
	}
}

func toDTO(doc *domain.Document) *Document {
	return &Document{
		ID:            string(doc.ID),
		Title:         doc.Title,
		ContentType:   doc.ContentType,
		SizeBytes:     doc.SizeBytes,
		ContentSHA256: doc.ContentSHA256,
		Source:        doc.Source,
		CreatedAt:     doc.CreatedAt,
	}
}
