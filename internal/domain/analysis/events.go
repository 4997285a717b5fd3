package analysis

import (
	"encoding/json"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// RequestedEvent is recorded when a new analysis is accepted. The worker
// consumes it to pick up async runs.
type RequestedEvent struct {
	common.BaseEvent
	DocumentID *common.ID `json:"document_id,omitempty"`
	Type       Type       `json:"type"`
	TextHash   string     `json:"text_hash"`
	Hint       string     `json:"hint,omitempty"`
	Async      bool       `json:"async"`
	Version    int        `json:"version"`
}

func NewRequestedEvent(a *Analysis) *RequestedEvent {
	return &RequestedEvent{
		BaseEvent:  common.NewBaseEvent(string(a.ID)),
		DocumentID: a.DocumentID,
		Type:       a.Type,
		TextHash:   a.TextHash,
		Hint:       a.Hint,
		Async:      a.Async,
		Version:    a.Version,
	}
}

// CompletedEvent is recorded when an analysis finishes successfully. It
// carries the denormalized outcome so downstream consumers need no lookup.
type CompletedEvent struct {
	common.BaseEvent
	Type         Type               `json:"type"`
	Jurisdiction legal.Jurisdiction `json:"jurisdiction"`
	Confidence   float64            `json:"confidence"`
	RiskLevel    common.RiskLevel   `json:"risk_level,omitempty"`
	Summary      string             `json:"summary,omitempty"`
	Result       json.RawMessage    `json:"result,omitempty"`
	LLMReviewed  bool               `json:"llm_reviewed"`
	CompletedAt  *time.Time         `json:"completed_at"`
	Version      int                `json:"version"`
}

func NewCompletedEvent(a *Analysis) *CompletedEvent {
	return &CompletedEvent{
		BaseEvent:    common.NewBaseEvent(string(a.ID)),
		Type:         a.Type,
		Jurisdiction: a.Jurisdiction,
		Confidence:   a.Confidence,
		RiskLevel:    a.RiskLevel,
		Summary:      a.Summary,
		Result:       a.Result,
		LLMReviewed:  a.LLMReviewed,
		CompletedAt:  a.CompletedAt,
		Version:      a.Version,
	}
}

// FailedEvent is recorded when an analysis fails terminally, after retries
// are exhausted on the async path.
type FailedEvent struct {
	common.BaseEvent
	Type         Type       `json:"type"`
	ErrorCode    string     `json:"error_code"`
	ErrorMessage string     `json:"error_message"`
	CompletedAt  *time.Time `json:"completed_at"`
	Version      int        `json:"version"`
}

func NewFailedEvent(a *Analysis) *FailedEvent {
	return &FailedEvent{
		BaseEvent:    common.NewBaseEvent(string(a.ID)),
		Type:         a.Type,
		ErrorCode:    a.ErrorCode,
		ErrorMessage: a.ErrorMessage,
		CompletedAt:  a.CompletedAt,
		Version:      a.Version,
	}
}
