package document

import (
	"context"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// Repository is the persistence contract for document metadata. Content
// blobs are handled by the storage layer; implementations here only see the
// aggregate.
type Repository interface {
	// Create persists a new document row.
	Create(ctx context.Context, d *Document) error

	// GetByID loads one document. Returns a NOT_FOUND error when absent.
	GetByID(ctx context.Context, id common.ID) (*Document, error)

	// FindByContentHash returns the document with the given content SHA-256,
	// or a NOT_FOUND error. Used to deduplicate repeat uploads.
	FindByContentHash(ctx context.Context, sha256 string) (*Document, error)

	// List returns documents newest-first with the total row count.
	List(ctx context.Context, p common.Pagination) ([]*Document, int64, error)
}
