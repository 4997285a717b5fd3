// Package config provides configuration loading, defaults, and validation for
// the LexBridge-Intelligence platform.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "LEXBRIDGE"

// newViper builds a pre-configured Viper instance with the platform's standard
// settings: YAML file type, LEXBRIDGE_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like "database.host"
// resolve to "LEXBRIDGE_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerDefaults(v)
	return v
}

// registerDefaults seeds viper with every known configuration key.  Viper only
// resolves environment variables for keys it knows about, so env-only loading
// (LoadFromEnv) depends on this registration.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.max_body_size", DefaultServerMaxBodySize)

	v.SetDefault("database.host", DefaultDBHost)
	v.SetDefault("database.port", DefaultDBPort)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", DefaultDBName)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", DefaultDBMaxConns)
	v.SetDefault("database.min_conns", DefaultDBMinConns)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "5m")
	v.SetDefault("database.migrations_path", "migrations")

	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 0)
	v.SetDefault("redis.min_idle_conns", 0)
	v.SetDefault("redis.default_ttl", DefaultRedisTTL)
	v.SetDefault("redis.key_prefix", DefaultRedisKeyPrefix)

	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)
	v.SetDefault("kafka.auto_offset_reset", "earliest")
	v.SetDefault("kafka.producer_retries", 3)
	v.SetDefault("kafka.required_acks", "all")
	v.SetDefault("kafka.compression", "")
	v.SetDefault("kafka.auto_create_topics", true)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("kafka.num_partitions", 3)

	v.SetDefault("minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", DefaultMinIOBucket)
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.presign_expiry", DefaultPresignExpiry)

	v.SetDefault("opensearch.addresses", []string{DefaultOpenSearchAddress})
	v.SetDefault("opensearch.user", "")
	v.SetDefault("opensearch.password", "")
	v.SetDefault("opensearch.insecure_skip_verify", false)
	v.SetDefault("opensearch.index_prefix", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.max_retries", DefaultLLMMaxRetries)
	v.SetDefault("llm.retry_backoff", DefaultLLMRetryBackoff)

	v.SetDefault("worker.concurrency", DefaultWorkerConcurrency)
	v.SetDefault("worker.max_retries", DefaultWorkerMaxRetries)
	v.SetDefault("worker.retry_backoff", DefaultWorkerRetryBackoff)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output", "stdout")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)

	v.SetDefault("analysis.escalation_threshold", DefaultEscalationThreshold)
	v.SetDefault("analysis.cache_ttl", DefaultAnalysisCacheTTL)
	v.SetDefault("analysis.max_text_bytes", DefaultMaxTextBytes)
}

// Load reads the YAML file at configPath, merges any LEXBRIDGE_* environment
// variable overrides, applies platform defaults for unset fields, and
// validates the result.  It returns a fully-populated *Config or a
// descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromFile is an alias for Load, kept for call-site readability next to
// LoadFromEnv.
func LoadFromFile(configPath string) (*Config, error) {
	return Load(configPath)
}

// LoadFromEnv builds a Config entirely from LEXBRIDGE_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	LEXBRIDGE_<SECTION>_<FIELD>   e.g.  LEXBRIDGE_DATABASE_HOST, LEXBRIDGE_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level; callers are
// responsible for applying only the safe subset of changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is NOT called and
// the previous configuration stays in effect.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// Config change produced an invalid config; skip the callback to
			// prevent the application from entering a broken state.
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
