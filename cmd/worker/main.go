// Background worker entry point for LexBridge-Intelligence.
//
// The worker consumes queued analysis requests from Kafka, fetches the
// document text from object storage and runs the full pipeline. Offsets
// commit only after handling, so a crash replays unfinished work;
// terminal aggregates are skipped on redelivery.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/internal/application/analysis"
	"github.com/turtacn/LexBridge-Intelligence/internal/config"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/llm/gemini"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/storage/minio"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"
	healthAddr        = ":8081"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: logFormat(cfg.Log.Format),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("worker")
	logger.Info("starting", logging.String("version", version))

	if err := run(cfg, logger); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *prometheus.AppMetrics
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            "worker",
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			logger.Warn("metrics disabled", logging.Err(err))
		} else {
			metrics = prometheus.NewAppMetrics(collector)
		}
	}

	conn, err := postgres.NewConnection(ctx, postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer conn.Close()

	analysisRepo := repositories.NewAnalysisRepository(conn.Pool(), logger)

	storeClient, err := minio.NewClient(minio.Config{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		Region:          cfg.MinIO.Region,
		Bucket:          cfg.MinIO.Bucket,
	}, logger)
	if err != nil {
		return fmt.Errorf("minio connection failed: %w", err)
	}
	textStore := minio.NewDocumentStore(storeClient, logger)

	// Redis backs the per-analysis task lock. Without it the worker
	// falls back to terminal-state checks and optimistic updates only.
	var locks redis.LockFactory
	redisClient, err := redis.NewClient(&redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger)
	if err != nil {
		logger.Warn("redis unavailable, task locking disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		locks = redis.NewLockFactory(redisClient, logger)
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:          cfg.Kafka.Brokers,
		Acks:             cfg.Kafka.RequiredAcks,
		MaxRetries:       cfg.Kafka.ProducerRetries,
		BatchSize:        cfg.Kafka.BatchSize,
		BatchTimeout:     cfg.Kafka.BatchTimeout,
		CompressionCodec: cfg.Kafka.Compression,
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka producer init failed: %w", err)
	}
	defer producer.Close()

	if cfg.Kafka.AutoCreateTopics {
		manager, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Warn("topic provisioning skipped", logging.Err(err))
		} else {
			if err := manager.EnsureDefaultTopics(ctx); err != nil {
				logger.Warn("topic provisioning failed", logging.Err(err))
			}
			_ = manager.Close()
		}
	}

	var indexer *opensearch.Indexer
	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:          cfg.OpenSearch.Addresses,
		Username:           cfg.OpenSearch.User,
		Password:           cfg.OpenSearch.Password,
		InsecureSkipVerify: cfg.OpenSearch.InsecureSkipVerify,
		IndexPrefix:        cfg.OpenSearch.IndexPrefix,
	}, logger)
	if err != nil {
		logger.Warn("opensearch unavailable, indexing disabled", logging.Err(err))
	} else {
		indexer = opensearch.NewIndexer(osClient, logger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			logger.Warn("search index bootstrap failed", logging.Err(err))
		}
	}

	orchOpts := []analysis.OrchestratorOption{
		analysis.WithOrchestratorLogger(logger),
	}
	if cfg.Analysis.EscalationThreshold > 0 {
		orchOpts = append(orchOpts, analysis.WithEscalationThreshold(cfg.Analysis.EscalationThreshold))
	}
	if cfg.LLM.Provider == "gemini" {
		analyst, err := gemini.NewAnalyst(ctx, cfg.LLM)
		if err != nil {
			logger.Warn("llm collaborator unavailable", logging.Err(err))
		} else {
			defer analyst.Close()
			orchOpts = append(orchOpts, analysis.WithAnalyst(analyst))
		}
	}
	orchestrator := analysis.NewOrchestrator(nil, orchOpts...)

	serviceOpts := []analysis.ServiceOption{
		analysis.WithTextStore(textStore),
		analysis.WithPublisher(producer),
		analysis.WithConfig(analysis.Config{
			CacheTTL:     cfg.Analysis.CacheTTL,
			MaxTextBytes: cfg.Analysis.MaxTextBytes,
		}),
	}
	if locks != nil {
		serviceOpts = append(serviceOpts, analysis.WithLocks(locks))
	}
	if indexer != nil {
		serviceOpts = append(serviceOpts, analysis.WithIndexer(indexer))
	}
	if metrics != nil {
		serviceOpts = append(serviceOpts, analysis.WithMetrics(metrics))
	}
	service, err := analysis.NewService(analysisRepo, orchestrator, logger, serviceOpts...)
	if err != nil {
		return fmt.Errorf("analysis service init failed: %w", err)
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{kafka.TopicAnalysisRequest},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Worker.MaxRetries,
			RetryBackoff:    cfg.Worker.RetryBackoff,
			DeadLetterTopic: kafka.TopicAnalysisRequestDLQ,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer init failed: %w", err)
	}
	defer consumer.Close()

	consumer.Subscribe(kafka.TopicAnalysisRequest, func(ctx context.Context, msg *kafka.Message) error {
		envelope, err := kafka.MessageToEventEnvelope(msg)
		if err != nil {
			// Malformed envelopes can never succeed; drop them.
			logger.Error("dropping malformed event", logging.Err(err))
			return nil
		}
		var payload kafka.AnalysisRequestedPayload
		if err := envelope.DecodePayload(&payload); err != nil {
			logger.Error("dropping undecodable payload",
				logging.String("event_id", envelope.EventID), logging.Err(err))
			return nil
		}
		return service.ProcessRequested(ctx, &payload)
	})

	// Minimal health endpoint for orchestration probes.
	health := &http.Server{
		Addr: healthAddr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/healthz" {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := health.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("health endpoint failed", logging.Err(err))
		}
	}()

	logger.Info("consuming",
		logging.String("topic", kafka.TopicAnalysisRequest),
		logging.String("group", cfg.Kafka.GroupID))
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("consumer start failed: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = health.Shutdown(shutdownCtx)
	return nil
}

// loadConfig reads the config file when present and otherwise falls
// back to LEXBRIDGE_* environment variables, the 12-factor path.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// logFormat maps the config's "text" to zap's console encoder.
func logFormat(format string) string {
	if format == "text" {
		return "console"
	}
	return format
}
