package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaGroupID, cfg.Kafka.GroupID)
	assert.Equal(t, "earliest", cfg.Kafka.AutoOffsetReset)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)
	assert.Equal(t, []string{DefaultOpenSearchAddress}, cfg.OpenSearch.Addresses)
	assert.Equal(t, "", cfg.LLM.Provider, "LLM collaborator is disabled unless configured")
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.InDelta(t, DefaultEscalationThreshold, cfg.Analysis.EscalationThreshold, 1e-9)
	assert.Equal(t, 24*time.Hour, cfg.Analysis.CacheTTL)
	assert.Equal(t, int64(DefaultMaxTextBytes), cfg.Analysis.MaxTextBytes)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Redis.KeyPrefix = "custom:"
	cfg.Analysis.EscalationThreshold = 0.55
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom:", cfg.Redis.KeyPrefix)
	assert.InDelta(t, 0.55, cfg.Analysis.EscalationThreshold, 1e-9)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault_PassesValidationWithCredentials(t *testing.T) {
	cfg := Default()
	cfg.Database.User = "u"
	assert.NoError(t, cfg.Validate())
}
