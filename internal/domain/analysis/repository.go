package analysis

import (
	"context"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	Status       common.Status
	Type         Type
	Jurisdiction legal.Jurisdiction
	DocumentID   *common.ID
	Pagination   common.Pagination
	SortBy       string
	SortOrder    common.SortOrder
}

// Repository persists Analysis aggregates.
//
// Update takes the aggregate's current Version and must fail with a conflict
// when the stored row has moved on, so concurrent workers cannot clobber
// each other's terminal states.
type Repository interface {
	Create(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, id common.ID) (*Analysis, error)
	Update(ctx context.Context, a *Analysis) error
	List(ctx context.Context, filter ListFilter) ([]*Analysis, int64, error)

	// FindByTextHash returns the most recent completed analysis of the given
	// type over identical input, or a not-found error. Used for result reuse
	// before running the pipeline again.
	FindByTextHash(ctx context.Context, typ Type, textHash string) (*Analysis, error)
}
