// Package config provides configuration loading, defaults, and validation for
// the LexBridge-Intelligence platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 30 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 15 * time.Second
	DefaultServerMaxBodySize     = 4 << 20 // 4 MiB

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "lexbridge"
	DefaultDBMaxConns = 25
	DefaultDBMinConns = 2

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "lexbridge:"
	DefaultRedisTTL       = 1 * time.Hour

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "lexbridge-workers"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "lexbridge-documents"
	DefaultPresignExpiry = 15 * time.Minute

	DefaultOpenSearchAddress = "http://localhost:9200"

	DefaultLLMModel        = "gemini-1.5-flash"
	DefaultLLMTimeout      = 15 * time.Second
	DefaultLLMMaxRetries   = 2
	DefaultLLMRetryBackoff = 500 * time.Millisecond

	DefaultWorkerConcurrency  = 4
	DefaultWorkerMaxRetries   = 3
	DefaultWorkerRetryBackoff = 2 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "lexbridge"
	DefaultMetricsPath      = "/metrics"

	DefaultEscalationThreshold = 0.7
	DefaultAnalysisCacheTTL    = 24 * time.Hour
	DefaultMaxTextBytes        = 1 << 20 // 1 MiB of extracted contract text
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = DefaultDBMinConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.RequiredAcks == "" {
		cfg.Kafka.RequiredAcks = "all"
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.ReplicationFactor == 0 {
		cfg.Kafka.ReplicationFactor = 1
	}
	if cfg.Kafka.NumPartitions == 0 {
		cfg.Kafka.NumPartitions = 3
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddress}
	}

	// ── LLM ───────────────────────────────────────────────────────────────────
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultLLMModel
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = DefaultLLMTimeout
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = DefaultLLMMaxRetries
	}
	if cfg.LLM.RetryBackoff == 0 {
		cfg.LLM.RetryBackoff = DefaultLLMRetryBackoff
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = DefaultWorkerMaxRetries
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = DefaultWorkerRetryBackoff
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.EscalationThreshold == 0 {
		cfg.Analysis.EscalationThreshold = DefaultEscalationThreshold
	}
	if cfg.Analysis.CacheTTL == 0 {
		cfg.Analysis.CacheTTL = DefaultAnalysisCacheTTL
	}
	if cfg.Analysis.MaxTextBytes == 0 {
		cfg.Analysis.MaxTextBytes = DefaultMaxTextBytes
	}
}

// Default returns a fully-populated Config built entirely from platform
// defaults.  It is primarily useful in tests and for programmatic embedding.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
