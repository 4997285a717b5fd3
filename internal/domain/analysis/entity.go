// Package analysis implements the Analysis bounded context: one requested
// run of the detection/analysis pipeline over a piece of contract text,
// from request through completion or failure. The aggregate owns the status
// lifecycle and records domain events the messaging layer publishes;
// the legal reasoning itself lives in the intelligence engines.
package analysis

import (
	"encoding/json"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Type selects which pipeline an analysis runs.
type Type string

const (
	// TypeDetect runs jurisdiction detection only.
	TypeDetect Type = "detect"
	// TypeIndia runs the Indian legal extractor directly.
	TypeIndia Type = "india"
	// TypeUS runs the US legal extractor directly.
	TypeUS Type = "us"
	// TypeCrossBorder runs the comparative analyzer directly.
	TypeCrossBorder Type = "cross_border"
	// TypeFull detects first, then routes to the matching engine.
	TypeFull Type = "full"
)

var validTypes = map[Type]bool{
	TypeDetect:      true,
	TypeIndia:       true,
	TypeUS:          true,
	TypeCrossBorder: true,
	TypeFull:        true,
}

// Valid reports whether t names a known pipeline.
func (t Type) Valid() bool { return validTypes[t] }

// allowedTransitions defines the legal status moves. A sync analysis may
// complete straight from pending; the worker path goes through running.
//
//	pending ──► running ──► completed
//	   │           │
//	   ├───────────┴──► failed
//	   └──► completed
var allowedTransitions = map[common.Status][]common.Status{
	common.StatusPending:   {common.StatusRunning, common.StatusCompleted, common.StatusFailed},
	common.StatusRunning:   {common.StatusCompleted, common.StatusFailed},
	common.StatusCompleted: {},
	common.StatusFailed:    {},
}

// Outcome carries everything a finished pipeline run produced. Result holds
// the engine report serialized as JSON; the scalar fields are denormalized
// for listing, search, and metrics.
type Outcome struct {
	Jurisdiction legal.Jurisdiction
	Confidence   float64
	RiskLevel    common.RiskLevel
	Summary      string
	Result       json.RawMessage
	LLMReviewed  bool
	LLMAdopted   bool
}

// Analysis is the aggregate root for one pipeline run.
type Analysis struct {
	common.BaseEntity

	DocumentID *common.ID    `json:"document_id,omitempty"`
	Type       Type          `json:"type"`
	Status     common.Status `json:"status"`
	Async      bool          `json:"async"`

	// Request identity and routing inputs.
	TextHash    string `json:"text_hash"`
	Hint        string `json:"hint,omitempty"`
	IndianState string `json:"indian_state,omitempty"`
	USState     string `json:"us_state,omitempty"`

	// Outcome fields, populated on completion.
	Jurisdiction legal.Jurisdiction `json:"jurisdiction"`
	Confidence   float64            `json:"confidence"`
	RiskLevel    common.RiskLevel   `json:"risk_level,omitempty"`
	Summary      string             `json:"summary,omitempty"`
	Result       json.RawMessage    `json:"result,omitempty"`
	LLMReviewed  bool               `json:"llm_reviewed"`
	LLMAdopted   bool               `json:"llm_adopted"`

	// Failure fields.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	Version     int        `json:"version"`
	RequestedAt time.Time  `json:"requested_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	events []common.DomainEvent
}

// NewRequest constructs a pending Analysis, enforcing construction
// invariants, and records the requested event.
func NewRequest(typ Type, textHash string, async bool) (*Analysis, error) {
	if !typ.Valid() {
		return nil, errors.NewInvalidInput("unknown analysis type %q", typ)
	}
	if textHash == "" {
		return nil, errors.NewInvalidInput("analysis text hash is required")
	}

	a := &Analysis{
		BaseEntity:   common.NewBaseEntity(),
		Type:         typ,
		Status:       common.StatusPending,
		Async:        async,
		TextHash:     textHash,
		Jurisdiction: legal.JurisdictionUnknown,
		Version:      1,
		RequestedAt:  time.Now().UTC(),
	}
	a.recordEvent(NewRequestedEvent(a))
	return a, nil
}

// WithDocument links the analysis to a stored document.
func (a *Analysis) WithDocument(id common.ID) *Analysis {
	a.DocumentID = &id
	return a
}

// WithRouting records caller-supplied routing inputs.
func (a *Analysis) WithRouting(hint, indianState, usState string) *Analysis {
	a.Hint = hint
	a.IndianState = indianState
	a.USState = usState
	return a
}

// Start moves the analysis to running. Used by the worker when it picks a
// request off the queue.
func (a *Analysis) Start() error {
	if err := a.transition(common.StatusRunning); err != nil {
		return err
	}
	now := time.Now().UTC()
	a.StartedAt = &now
	a.Touch()
	return nil
}

// Complete records a successful outcome and moves to completed.
func (a *Analysis) Complete(out Outcome) error {
	if err := a.transition(common.StatusCompleted); err != nil {
		return err
	}
	a.Jurisdiction = out.Jurisdiction
	a.Confidence = out.Confidence
	a.RiskLevel = out.RiskLevel
	a.Summary = out.Summary
	a.Result = out.Result
	a.LLMReviewed = out.LLMReviewed
	a.LLMAdopted = out.LLMAdopted
	now := time.Now().UTC()
	a.CompletedAt = &now
	a.Touch()
	a.recordEvent(NewCompletedEvent(a))
	return nil
}

// Fail records a failure and moves to failed. The code should be one of the
// pkg/errors codes so API and events stay consistent.
func (a *Analysis) Fail(code, message string) error {
	if err := a.transition(common.StatusFailed); err != nil {
		return err
	}
	a.ErrorCode = code
	a.ErrorMessage = message
	now := time.Now().UTC()
	a.CompletedAt = &now
	a.Touch()
	a.recordEvent(NewFailedEvent(a))
	return nil
}

// Terminal reports whether the analysis reached a final status.
func (a *Analysis) Terminal() bool {
	return a.Status == common.StatusCompleted || a.Status == common.StatusFailed
}

func (a *Analysis) transition(next common.Status) error {
	for _, allowed := range allowedTransitions[a.Status] {
		if allowed == next {
			a.Status = next
			return nil
		}
	}
	return errors.Newf(errors.ErrCodeConflict,
		"illegal analysis status transition %s -> %s", a.Status, next)
}

// Events returns the recorded domain events without clearing them.
func (a *Analysis) Events() []common.DomainEvent {
	return a.events
}

// DrainEvents returns and clears the recorded events. The application layer
// calls this after a successful persist to publish exactly once.
func (a *Analysis) DrainEvents() []common.DomainEvent {
	evs := a.events
	a.events = nil
	return evs
}

func (a *Analysis) recordEvent(ev common.DomainEvent) {
	a.events = append(a.events, ev)
}
