package kafka

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

type mockWriter struct {
	mu        sync.Mutex
	written   []kafka.Message
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closed    bool
}

func (w *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeFunc != nil {
		if err := w.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *mockWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *mockWriter) Stats() kafka.WriterStats {
	return kafka.WriterStats{}
}

func (w *mockWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]kafka.Message, len(w.written))
	copy(out, w.written)
	return out
}

func newTestProducer(w WriterInterface) *Producer {
	return &Producer{
		writer: w,
		config: ProducerConfig{
			Brokers:         []string{"localhost:9092"},
			MaxMessageBytes: 1024 * 1024,
		},
		logger:  logging.NewNopLogger(),
		metrics: &producerMetrics{},
	}
}

func TestValidateProducerConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProducerConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  ProducerConfig{Brokers: []string{"localhost:9092"}},
		},
		{
			name:    "no brokers",
			cfg:     ProducerConfig{},
			wantErr: true,
		},
		{
			name:    "negative retries",
			cfg:     ProducerConfig{Brokers: []string{"localhost:9092"}, MaxRetries: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProducerConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewProducer_InvalidConfig(t *testing.T) {
	_, err := NewProducer(ProducerConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
}

func TestNewProducer_UnsupportedSASLMechanism(t *testing.T) {
	cfg := ProducerConfig{
		Brokers:       []string{"localhost:9092"},
		SASLEnabled:   true,
		SASLMechanism: "GSSAPI",
		SASLUsername:  "user",
		SASLPassword:  "pass",
	}
	_, err := NewProducer(cfg, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
	assert.Contains(t, err.Error(), "GSSAPI")
}

func TestProducer_Publish(t *testing.T) {
	mw := &mockWriter{}
	p := newTestProducer(mw)

	msg := &ProducerMessage{
		Topic:   TopicAnalysisRequest,
		Key:     []byte("analysis-1"),
		Value:   []byte(`{"analysis_id":"analysis-1"}`),
		Headers: map[string]string{"event_type": EventTypeAnalysisRequested},
	}
	err := p.Publish(context.Background(), msg)
	require.NoError(t, err)

	written := mw.messages()
	require.Len(t, written, 1)
	assert.Equal(t, TopicAnalysisRequest, written[0].Topic)
	assert.Equal(t, []byte("analysis-1"), written[0].Key)
	require.Len(t, written[0].Headers, 1)
	assert.Equal(t, "event_type", written[0].Headers[0].Key)
	assert.False(t, written[0].Time.IsZero())

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.MessagesSent)
	assert.Equal(t, int64(0), stats.MessagesFailed)
	assert.Equal(t, int64(len(msg.Value)), stats.BytesSent)
	assert.False(t, stats.LastSentAt.IsZero())
}

func TestProducer_Publish_Validation(t *testing.T) {
	p := newTestProducer(&mockWriter{})

	err := p.Publish(context.Background(), &ProducerMessage{Value: []byte("x")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))

	err = p.Publish(context.Background(), &ProducerMessage{Topic: TopicAnalysisRequest})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
}

func TestProducer_Publish_Oversize(t *testing.T) {
	p := newTestProducer(&mockWriter{})
	p.config.MaxMessageBytes = 16

	err := p.Publish(context.Background(), &ProducerMessage{
		Topic: TopicAnalysisRequest,
		Value: []byte("this payload is longer than sixteen bytes"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
}

func TestProducer_Publish_WriteError(t *testing.T) {
	mw := &mockWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return fmt.Errorf("broker unreachable")
		},
	}
	p := newTestProducer(mw)

	err := p.Publish(context.Background(), &ProducerMessage{
		Topic: TopicAnalysisRequest,
		Value: []byte("{}"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeInternal))
	assert.Equal(t, int64(1), p.Stats().MessagesFailed)
}

func TestProducer_PublishBatch(t *testing.T) {
	mw := &mockWriter{}
	p := newTestProducer(mw)

	msgs := []*ProducerMessage{
		{Topic: TopicAnalysisRequest, Key: []byte("a"), Value: []byte("1")},
		{Topic: TopicAnalysisRequest, Key: []byte("b"), Value: []byte("2")},
		{Topic: TopicAnalysisCompleted, Key: []byte("c"), Value: []byte("3")},
	}
	result, err := p.PublishBatch(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Len(t, mw.messages(), 3)
	assert.Equal(t, int64(3), p.Stats().MessagesSent)
}

func TestProducer_PublishBatch_PartialFailure(t *testing.T) {
	mw := &mockWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return kafka.WriteErrors{nil, fmt.Errorf("partition offline"), nil}
		},
	}
	p := newTestProducer(mw)

	msgs := []*ProducerMessage{
		{Topic: TopicAnalysisRequest, Value: []byte("1")},
		{Topic: TopicAnalysisRequest, Value: []byte("2")},
		{Topic: TopicAnalysisRequest, Value: []byte("3")},
	}
	result, err := p.PublishBatch(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, TopicAnalysisRequest, result.Errors[0].Topic)
}

func TestProducer_PublishBatch_WholeBatchFailure(t *testing.T) {
	mw := &mockWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return fmt.Errorf("connection refused")
		},
	}
	p := newTestProducer(mw)

	msgs := []*ProducerMessage{
		{Topic: TopicAnalysisRequest, Value: []byte("1")},
		{Topic: TopicAnalysisRequest, Value: []byte("2")},
	}
	result, err := p.PublishBatch(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, -1, result.Errors[0].Index)
}

func TestProducer_PublishBatch_Empty(t *testing.T) {
	p := newTestProducer(&mockWriter{})
	_, err := p.PublishBatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
}

func TestProducer_PublishAsync_ErrorHandler(t *testing.T) {
	mw := &mockWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return fmt.Errorf("broker unreachable")
		},
	}
	p := newTestProducer(mw)

	got := make(chan error, 1)
	p.config.AsyncErrorHandler = func(err error, msg *ProducerMessage) {
		got <- err
	}

	p.PublishAsync(context.Background(), &ProducerMessage{
		Topic: TopicAnalysisRequest,
		Value: []byte("{}"),
	})

	select {
	case err := <-got:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("async error handler was not called")
	}
}

func TestProducer_Close(t *testing.T) {
	mw := &mockWriter{}
	p := newTestProducer(mw)

	require.NoError(t, p.Close())
	assert.True(t, mw.closed)

	// Second close is a no-op.
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrProducerClosed)

	_, err = p.PublishBatch(context.Background(), []*ProducerMessage{{Topic: "t", Value: []byte("v")}})
	assert.ErrorIs(t, err, ErrProducerClosed)
}
