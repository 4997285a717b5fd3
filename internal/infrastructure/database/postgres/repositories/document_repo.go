// Package repositories provides the PostgreSQL-backed implementations of the
// domain repository interfaces. Every method takes a context.Context for
// cancellation propagation and uses parameterised queries exclusively.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/document"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

const documentColumns = `id, title, content_type, size_bytes, content_sha256, storage_key, source, created_at, updated_at`

// DocumentRepository is the PostgreSQL implementation of document.Repository.
type DocumentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewDocumentRepository constructs a ready-to-use DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool, logger logging.Logger) *DocumentRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DocumentRepository{pool: pool, logger: logger}
}

// Create persists a new document record. The content itself lives in object
// storage; only metadata is stored here.
func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	r.logger.Debug("DocumentRepository.Create", logging.String("document_id", string(d.ID)))

	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.Title, d.ContentType, d.SizeBytes, d.ContentSHA256,
		d.StorageKey, d.Source, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("DocumentRepository.Create: insert", logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert document")
	}
	return nil
}

// GetByID loads a document by its primary key.
func (r *DocumentRepository) GetByID(ctx context.Context, id common.ID) (*document.Document, error) {
	r.logger.Debug("DocumentRepository.GetByID", logging.String("id", string(id)))

	return r.scanDocument(r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = $1`, id))
}

// FindByContentHash returns the most recently stored document with identical
// content, used to reuse storage for repeated uploads.
func (r *DocumentRepository) FindByContentHash(ctx context.Context, sha256 string) (*document.Document, error) {
	r.logger.Debug("DocumentRepository.FindByContentHash", logging.String("sha256", sha256))

	return r.scanDocument(r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE content_sha256 = $1
		ORDER BY created_at DESC
		LIMIT 1`, sha256))
}

// List returns documents ordered newest first, with the total match count for
// pagination.
func (r *DocumentRepository) List(ctx context.Context, p common.Pagination) ([]*document.Document, int64, error) {
	r.logger.Debug("DocumentRepository.List", logging.Int("page", p.Page), logging.Int("page_size", p.PageSize))

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		r.logger.Error("DocumentRepository.List: count", logging.Err(err))
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count documents")
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		r.logger.Error("DocumentRepository.List: query", logging.Err(err))
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list documents")
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(
			&d.ID, &d.Title, &d.ContentType, &d.SizeBytes, &d.ContentSHA256,
			&d.StorageKey, &d.Source, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			r.logger.Error("DocumentRepository.List: scan", logging.Err(err))
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document row")
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "row iteration error")
	}
	return docs, total, nil
}

func (r *DocumentRepository) scanDocument(row pgx.Row) (*document.Document, error) {
	var d document.Document
	err := row.Scan(
		&d.ID, &d.Title, &d.ContentType, &d.SizeBytes, &d.ContentSHA256,
		&d.StorageKey, &d.Source, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found")
		}
		r.logger.Error("DocumentRepository.scanDocument", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document row")
	}
	return &d, nil
}

// ensure interface compliance at compile time.
var _ document.Repository = (*DocumentRepository)(nil)
