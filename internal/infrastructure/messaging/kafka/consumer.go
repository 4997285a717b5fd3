package kafka

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
	ErrConsumerClosed = errors.New(errors.ErrCodeInternal, "consumer closed")
)

// Message is an inbound message after kafka decoding.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
	Headers   map[string]string
}

// MessageHandler processes one message. A non-nil error triggers the
// retry and dead-letter policy.
type MessageHandler func(ctx context.Context, msg *Message) error

// RetryConfig defines how failed messages are retried before being
// dead-lettered or dropped.
type RetryConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	AutoOffsetReset   string // earliest, latest
	CommitInterval    time.Duration
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	FetchMinBytes     int
	FetchMaxBytes     int
	FetchMaxWait      time.Duration
	IsolationLevel    string
	SASLEnabled       bool
	SASLMechanism     string
	SASLUsername      string
	SASLPassword      string
	TLSEnabled        bool
	TLSCertPath       string
	RetryConfig       RetryConfig
}

// ConsumerStats is a point-in-time snapshot of consumer counters.
type ConsumerStats struct {
	MessagesConsumed     int64
	MessagesProcessed    int64
	MessagesFailed       int64
	MessagesRetried      int64
	MessagesDeadLettered int64
	Lag                  int64
	LastConsumedAt       time.Time
}

type consumerMetrics struct {
	messagesConsumed     atomic.Int64
	messagesProcessed    atomic.Int64
	messagesFailed       atomic.Int64
	messagesRetried      atomic.Int64
	messagesDeadLettered atomic.Int64
	lag                  atomic.Int64
	lastConsumedAt       atomic.Value // time.Time
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.ReaderStats
}

// Consumer runs a consumer-group loop dispatching messages to
// per-topic handlers. Offsets commit only after a message is handled,
// dead-lettered or dropped, so a crash replays unfinished work.
type Consumer struct {
	reader ReaderInterface
	config ConsumerConfig
	logger logging.Logger

	handlers map[string]MessageHandler
	mu       sync.RWMutex

	running atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	deadLetterProducer *Producer
	metrics            *consumerMetrics
}

// NewConsumer creates a new Consumer.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.AutoOffsetReset == "" {
		cfg.AutoOffsetReset = "earliest"
	}
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = 30 * time.Second
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = 3 * time.Second
	}
	if cfg.FetchMinBytes == 0 {
		cfg.FetchMinBytes = 1
	}
	if cfg.FetchMaxBytes == 0 {
		cfg.FetchMaxBytes = 50 * 1024 * 1024 // 50MB
	}
	if cfg.FetchMaxWait == 0 {
		cfg.FetchMaxWait = 10 * time.Second
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.GroupID,
		GroupTopics:       cfg.Topics,
		MinBytes:          cfg.FetchMinBytes,
		MaxBytes:          cfg.FetchMaxBytes,
		MaxWait:           cfg.FetchMaxWait,
		CommitInterval:    cfg.CommitInterval,
		SessionTimeout:    cfg.SessionTimeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
		StartOffset:       kafka.FirstOffset,
	}
	if cfg.AutoOffsetReset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}
	if cfg.IsolationLevel == "read_committed" {
		readerCfg.IsolationLevel = kafka.ReadCommitted
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.TLSEnabled {
		tlsConfig, err := buildBrokerTLS(cfg.TLSCertPath)
		if err != nil {
			return nil, err
		}
		dialer.TLS = tlsConfig
	}
	if cfg.SASLEnabled {
		mech, err := buildSASLMechanism(cfg.SASLMechanism, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return nil, err
		}
		dialer.SASLMechanism = mech
	}
	readerCfg.Dialer = dialer

	reader := kafka.NewReader(readerCfg)

	var dlProducer *Producer
	if cfg.RetryConfig.DeadLetterTopic != "" {
		dlCfg := ProducerConfig{
			Brokers:       cfg.Brokers,
			SASLEnabled:   cfg.SASLEnabled,
			SASLMechanism: cfg.SASLMechanism,
			SASLUsername:  cfg.SASLUsername,
			SASLPassword:  cfg.SASLPassword,
			TLSEnabled:    cfg.TLSEnabled,
			TLSCertPath:   cfg.TLSCertPath,
		}
		p, err := NewProducer(dlCfg, logger)
		if err != nil {
			reader.Close()
			return nil, err
		}
		dlProducer = p
	}

	return &Consumer{
		reader:             reader,
		config:             cfg,
		logger:             logger,
		handlers:           make(map[string]MessageHandler),
		deadLetterProducer: dlProducer,
		metrics:            &consumerMetrics{},
	}, nil
}

// Subscribe registers the handler for a topic, replacing any previous
// registration.
func (c *Consumer) Subscribe(topic string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.logger.Info("Subscribed to topic", logging.String("topic", topic))
}

// Unsubscribe removes the handler for a topic.
func (c *Consumer) Unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, topic)
	c.logger.Info("Unsubscribed from topic", logging.String("topic", topic))
}

// Start launches the consume loop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.closed.Load() {
		return ErrConsumerClosed
	}
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)

	go c.consumeLoop(ctx)

	c.logger.Info("Kafka consumer started", logging.String("group", c.config.GroupID))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			time.Sleep(time.Second) // prevent busy loop on error
			continue
		}

		c.metrics.messagesConsumed.Add(1)
		c.metrics.lastConsumedAt.Store(time.Now())
		c.metrics.lag.Store(m.HighWaterMark - m.Offset)

		msg := &Message{
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       m.Key,
			Value:     m.Value,
			Timestamp: m.Time,
			Headers:   make(map[string]string, len(m.Headers)),
		}
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			// Commit so an unrouted topic cannot wedge the group.
			c.logger.Warn("No handler for topic", logging.String("topic", m.Topic))
			c.commit(ctx, m)
			continue
		}

		if err := c.processMessage(ctx, msg, handler); err != nil {
			// Cancelled mid-processing; leave the offset uncommitted so
			// the message is redelivered.
			return
		}
		c.commit(ctx, m)
	}
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.logger.Error("CommitMessages failed",
			logging.String("topic", m.Topic),
			logging.Int64("offset", m.Offset),
			logging.Err(err))
	}
}

// processMessage runs the handler with retries and exponential
// backoff. Exhausted messages go to the dead-letter topic when one is
// configured, otherwise they are dropped; either way the offset moves
// on. Only context cancellation is returned as an error.
func (c *Consumer) processMessage(ctx context.Context, msg *Message, handler MessageHandler) error {
	err := handler(ctx, msg)
	if err == nil {
		c.metrics.messagesProcessed.Add(1)
		return nil
	}

	maxRetries := c.config.RetryConfig.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	backoff := c.config.RetryConfig.RetryBackoff
	if backoff == 0 {
		backoff = 1 * time.Second
	}
	maxBackoff := c.config.RetryConfig.MaxRetryBackoff
	if maxBackoff == 0 {
		maxBackoff = 30 * time.Second
	}

	attempts := 1
	for i := 0; i < maxRetries; i++ {
		c.metrics.messagesRetried.Add(1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		attempts++
		err = handler(ctx, msg)
		if err == nil {
			c.metrics.messagesProcessed.Add(1)
			return nil
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	c.metrics.messagesFailed.Add(1)
	c.logger.Error("Message processing failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Int("attempts", attempts),
		logging.Err(err))

	if c.deadLetterProducer != nil && c.config.RetryConfig.DeadLetterTopic != "" {
		headers := make(map[string]string, len(msg.Headers)+3)
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers["original_topic"] = msg.Topic
		headers["error_message"] = err.Error()
		headers["attempts"] = strconv.Itoa(attempts)

		dlMsg := &ProducerMessage{
			Topic:   c.config.RetryConfig.DeadLetterTopic,
			Key:     msg.Key,
			Value:   msg.Value,
			Headers: headers,
		}
		if dlErr := c.deadLetterProducer.Publish(ctx, dlMsg); dlErr != nil {
			c.logger.Error("Failed to send to dead letter queue", logging.Err(dlErr))
			return nil
		}
		c.metrics.messagesDeadLettered.Add(1)
	}

	return nil
}

// Stats returns a snapshot of the consumer counters.
func (c *Consumer) Stats() ConsumerStats {
	s := ConsumerStats{
		MessagesConsumed:     c.metrics.messagesConsumed.Load(),
		MessagesProcessed:    c.metrics.messagesProcessed.Load(),
		MessagesFailed:       c.metrics.messagesFailed.Load(),
		MessagesRetried:      c.metrics.messagesRetried.Load(),
		MessagesDeadLettered: c.metrics.messagesDeadLettered.Load(),
		Lag:                  c.metrics.lag.Load(),
	}
	if t, ok := c.metrics.lastConsumedAt.Load().(time.Time); ok {
		s.LastConsumedAt = t
	}
	return s
}

// Close stops the loop, waits for in-flight work and releases the
// reader. Safe to call more than once.
func (c *Consumer) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.running.Store(false)

	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if c.reader != nil {
		c.reader.Close()
	}
	if c.deadLetterProducer != nil {
		c.deadLetterProducer.Close()
	}

	c.logger.Info("Kafka consumer closed",
		logging.Int64("consumed", c.metrics.messagesConsumed.Load()))
	return nil
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.AutoOffsetReset != "" && cfg.AutoOffsetReset != "earliest" && cfg.AutoOffsetReset != "latest" {
		return errors.New(errors.ErrCodeValidation, "auto offset reset must be earliest or latest")
	}
	if cfg.SASLEnabled {
		if cfg.SASLMechanism == "" {
			return errors.New(errors.ErrCodeValidation, "SASL mechanism required")
		}
		if cfg.SASLUsername == "" || cfg.SASLPassword == "" {
			return errors.New(errors.ErrCodeValidation, "SASL credentials required")
		}
	}
	if cfg.RetryConfig.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max retries must be >= 0")
	}
	return nil
}
