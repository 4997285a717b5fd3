package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

const analysisColumns = `id, document_id, type, status, async,
	text_hash, hint, indian_state, us_state,
	jurisdiction, confidence, risk_level, summary, result,
	llm_reviewed, llm_adopted, error_code, error_message,
	version, requested_at, started_at, completed_at, created_at, updated_at`

// AnalysisRepository is the PostgreSQL implementation of analysis.Repository.
type AnalysisRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, logger logging.Logger) *AnalysisRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisRepository{pool: pool, logger: logger}
}

// Create persists a new analysis record.
func (r *AnalysisRepository) Create(ctx context.Context, a *analysis.Analysis) error {
	r.logger.Debug("AnalysisRepository.Create", logging.String("analysis_id", string(a.ID)))

	_, err := r.pool.Exec(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES ($1,$2,$3,$4,$5,
		        $6,$7,$8,$9,
		        $10,$11,$12,$13,$14,
		        $15,$16,$17,$18,
		        $19,$20,$21,$22,$23,$24)`,
		a.ID, a.DocumentID, a.Type, a.Status, a.Async,
		a.TextHash, a.Hint, a.IndianState, a.USState,
		a.Jurisdiction.String(), a.Confidence, a.RiskLevel, a.Summary, resultBytes(a.Result),
		a.LLMReviewed, a.LLMAdopted, a.ErrorCode, a.ErrorMessage,
		a.Version, a.RequestedAt, a.StartedAt, a.CompletedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("AnalysisRepository.Create: insert", logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert analysis")
	}
	return nil
}

// GetByID loads an analysis by its primary key.
func (r *AnalysisRepository) GetByID(ctx context.Context, id common.ID) (*analysis.Analysis, error) {
	r.logger.Debug("AnalysisRepository.GetByID", logging.String("id", string(id)))

	return r.scanAnalysis(r.pool.QueryRow(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses WHERE id = $1`, id))
}

// Update persists mutations using optimistic locking. When the stored version
// no longer matches a.Version the update is rejected with a conflict error
// and the aggregate is left untouched.
func (r *AnalysisRepository) Update(ctx context.Context, a *analysis.Analysis) error {
	r.logger.Debug("AnalysisRepository.Update",
		logging.String("analysis_id", string(a.ID)),
		logging.Int("version", a.Version),
	)

	newVersion := a.Version + 1
	tag, err := r.pool.Exec(ctx, `
		UPDATE analyses SET
			status=$1,
			jurisdiction=$2, confidence=$3, risk_level=$4, summary=$5, result=$6,
			llm_reviewed=$7, llm_adopted=$8, error_code=$9, error_message=$10,
			started_at=$11, completed_at=$12, updated_at=$13, version=$14
		WHERE id=$15 AND version=$16`,
		a.Status,
		a.Jurisdiction.String(), a.Confidence, a.RiskLevel, a.Summary, resultBytes(a.Result),
		a.LLMReviewed, a.LLMAdopted, a.ErrorCode, a.ErrorMessage,
		a.StartedAt, a.CompletedAt, time.Now().UTC(), newVersion,
		a.ID, a.Version,
	)
	if err != nil {
		r.logger.Error("AnalysisRepository.Update: exec", logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update analysis")
	}
	if tag.RowsAffected() == 0 {
		return errors.Newf(errors.ErrCodeConflict,
			"optimistic lock conflict: analysis %s expected version %d", a.ID, a.Version)
	}

	a.Version = newVersion
	return nil
}

// List builds a dynamic query from the filter, returning a page of analyses
// plus the total match count.
func (r *AnalysisRepository) List(ctx context.Context, filter analysis.ListFilter) ([]*analysis.Analysis, int64, error) {
	r.logger.Debug("AnalysisRepository.List",
		logging.String("status", string(filter.Status)),
		logging.String("type", string(filter.Type)),
	)

	var (
		conditions []string
		args       []interface{}
		argIdx     int
	)

	nextArg := func(v interface{}) string {
		argIdx++
		args = append(args, v)
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = %s", nextArg(filter.Status)))
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = %s", nextArg(filter.Type)))
	}
	if filter.Jurisdiction != legal.JurisdictionUnknown {
		conditions = append(conditions, fmt.Sprintf("jurisdiction = %s", nextArg(filter.Jurisdiction.String())))
	}
	if filter.DocumentID != nil {
		conditions = append(conditions, fmt.Sprintf("document_id = %s", nextArg(*filter.DocumentID)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM analyses %s", whereClause), args...,
	).Scan(&total); err != nil {
		r.logger.Error("AnalysisRepository.List: count", logging.Err(err))
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count analyses")
	}

	sortCol := sanitiseAnalysisSortColumn(filter.SortBy)
	sortDir := "DESC"
	if filter.SortOrder == common.SortAsc {
		sortDir = "ASC"
	}

	pageSize := filter.Pagination.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filter.Pagination.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	phLimit := nextArg(pageSize)
	phOffset := nextArg(offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+analysisColumns+`
		FROM analyses %s
		ORDER BY %s %s
		LIMIT %s OFFSET %s`,
		whereClause, sortCol, sortDir, phLimit, phOffset), args...)
	if err != nil {
		r.logger.Error("AnalysisRepository.List: query", logging.Err(err))
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	analyses, err := r.scanAnalyses(rows)
	if err != nil {
		return nil, 0, err
	}
	return analyses, total, nil
}

// FindByTextHash returns the most recent completed analysis of the same type
// over identical input, for result reuse.
func (r *AnalysisRepository) FindByTextHash(ctx context.Context, typ analysis.Type, textHash string) (*analysis.Analysis, error) {
	r.logger.Debug("AnalysisRepository.FindByTextHash",
		logging.String("type", string(typ)),
		logging.String("text_hash", textHash),
	)

	return r.scanAnalysis(r.pool.QueryRow(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE type = $1 AND text_hash = $2 AND status = $3
		ORDER BY completed_at DESC
		LIMIT 1`, typ, textHash, common.StatusCompleted))
}

// sanitiseAnalysisSortColumn maps user-supplied sort fields to safe columns.
func sanitiseAnalysisSortColumn(col string) string {
	allowed := map[string]string{
		"requested_at": "requested_at",
		"completed_at": "completed_at",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
		"confidence":   "confidence",
		"status":       "status",
		"type":         "type",
	}
	if safe, ok := allowed[col]; ok {
		return safe
	}
	return "created_at"
}

// resultBytes converts the raw report to a driver-friendly value, keeping
// NULL for absent results instead of the empty string jsonb rejects.
func resultBytes(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func (r *AnalysisRepository) scanAnalysis(row pgx.Row) (*analysis.Analysis, error) {
	a, err := scanAnalysisRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
		}
		r.logger.Error("AnalysisRepository.scanAnalysis", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan analysis row")
	}
	return a, nil
}

func (r *AnalysisRepository) scanAnalyses(rows pgx.Rows) ([]*analysis.Analysis, error) {
	var result []*analysis.Analysis
	for rows.Next() {
		a, err := scanAnalysisRow(rows)
		if err != nil {
			r.logger.Error("AnalysisRepository.scanAnalyses", logging.Err(err))
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan analysis row")
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "row iteration error")
	}
	return result, nil
}

// scanAnalysisRow maps one row onto the aggregate. Jurisdiction is stored as
// its canonical name and parsed back to the enum.
func scanAnalysisRow(row pgx.Row) (*analysis.Analysis, error) {
	var (
		a            analysis.Analysis
		jurisdiction string
		result       []byte
	)

	err := row.Scan(
		&a.ID, &a.DocumentID, &a.Type, &a.Status, &a.Async,
		&a.TextHash, &a.Hint, &a.IndianState, &a.USState,
		&jurisdiction, &a.Confidence, &a.RiskLevel, &a.Summary, &result,
		&a.LLMReviewed, &a.LLMAdopted, &a.ErrorCode, &a.ErrorMessage,
		&a.Version, &a.RequestedAt, &a.StartedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Jurisdiction = legal.ParseJurisdiction(jurisdiction)
	if len(result) > 0 {
		a.Result = json.RawMessage(result)
	}
	return &a, nil
}

// ensure interface compliance at compile time.
var _ analysis.Repository = (*AnalysisRepository)(nil)
