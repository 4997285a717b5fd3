package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// Topics of the analysis pipeline. Dead-letter topics append the
// ".dlq" suffix to the topic they shadow.
const (
	TopicAnalysisRequest   = "legal.analysis.request"
	TopicAnalysisCompleted = "legal.analysis.completed"
	TopicAnalysisFailed    = "legal.analysis.failed"

	TopicAnalysisRequestDLQ = TopicAnalysisRequest + dlqSuffix
)

const dlqSuffix = ".dlq"

// DeadLetterTopic returns the dead-letter topic shadowing topic.
func DeadLetterTopic(topic string) string {
	return topic + dlqSuffix
}

// Event types carried in envelopes.
const (
	EventTypeAnalysisRequested = "analysis.requested"
	EventTypeAnalysisCompleted = "analysis.completed"
	EventTypeAnalysisFailed    = "analysis.failed"
)

// TopicConfig describes one topic for provisioning.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	MaxMessageBytes   int
	Configs           map[string]string
}

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// AnalysisRequestedPayload asks the worker to run one analysis. The
// document text is fetched from storage by document ID, never carried
// on the bus.
type AnalysisRequestedPayload struct {
	AnalysisID   string    `json:"analysis_id"`
	DocumentID   string    `json:"document_id,omitempty"`
	AnalysisType string    `json:"analysis_type"`
	TextHash     string    `json:"text_hash"`
	Hint         string    `json:"hint,omitempty"`
	RequestedAt  time.Time `json:"requested_at"`
}

// AnalysisCompletedPayload announces a finished analysis.
type AnalysisCompletedPayload struct {
	AnalysisID   string    `json:"analysis_id"`
	DocumentID   string    `json:"document_id,omitempty"`
	AnalysisType string    `json:"analysis_type"`
	Jurisdiction string    `json:"jurisdiction"`
	Confidence   float64   `json:"confidence"`
	RiskLevel    string    `json:"risk_level"`
	Summary      string    `json:"summary"`
	LLMReviewed  bool      `json:"llm_reviewed"`
	LLMAdopted   bool      `json:"llm_adopted"`
	CompletedAt  time.Time `json:"completed_at"`
}

// AnalysisFailedPayload announces a terminally failed analysis.
type AnalysisFailedPayload struct {
	AnalysisID   string    `json:"analysis_id"`
	AnalysisType string    `json:"analysis_type"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
	FailedAt     time.Time `json:"failed_at"`
}

func NewEventEnvelope(eventType string, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "envelope has no payload")
	}
	return json.Unmarshal(e.Payload, target)
}

// ToMessage wraps the envelope for publishing. The key routes all
// events of one aggregate to the same partition.
func (e *EventEnvelope) ToMessage(topic string, key string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

func MessageToEventEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	DeleteTopics(topics ...string) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager provisions and inspects topics.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to dial kafka")
	}
	return &TopicManager{
		conn:   conn,
		logger: logger,
	}, nil
}

// CreateTopic creates one topic, tolerating topics that already exist.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "num partitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "replication factor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "retention.ms", ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs)})
	}
	if cfg.CleanupPolicy != "" {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "cleanup.policy", ConfigValue: cfg.CleanupPolicy})
	}
	if cfg.MaxMessageBytes > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "max.message.bytes", ConfigValue: fmt.Sprintf("%d", cfg.MaxMessageBytes)})
	}
	for k, v := range cfg.Configs {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: k, ConfigValue: v})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if stderrors.Is(err, kafka.TopicAlreadyExists) {
			return nil
		}
		// Some brokers answer with a generic error while the topic is
		// already live; a partition probe settles it.
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create topic")
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

func (m *TopicManager) DeleteTopic(ctx context.Context, name string) error {
	if err := m.conn.DeleteTopics(name); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete topic")
	}
	m.logger.Warn("Topic deleted", logging.String("topic", name))
	return nil
}

func (m *TopicManager) TopicExists(ctx context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

func (m *TopicManager) ListTopics(ctx context.Context) ([]string, error) {
	partitions, err := m.conn.ReadPartitions()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read partitions")
	}

	seen := make(map[string]bool)
	var topics []string
	for _, p := range partitions {
		if !seen[p.Topic] {
			seen[p.Topic] = true
			topics = append(topics, p.Topic)
		}
	}
	return topics, nil
}

func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, topic := range topics {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

func (m *TopicManager) EnsureDefaultTopics(ctx context.Context) error {
	return m.EnsureTopics(ctx, DefaultTopics())
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the pipeline topics with their retention.
// Completed and failed events keep a longer window for audit replay.
func DefaultTopics() []TopicConfig {
	const day = int64(24 * 3600 * 1000)
	return []TopicConfig{
		{Name: TopicAnalysisRequest, NumPartitions: 6, ReplicationFactor: 3, RetentionMs: 7 * day},
		{Name: TopicAnalysisCompleted, NumPartitions: 6, ReplicationFactor: 3, RetentionMs: 30 * day},
		{Name: TopicAnalysisFailed, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: 30 * day},
		{Name: TopicAnalysisRequestDLQ, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: 30 * day},
	}
}
