// API server entry point for LexBridge-Intelligence.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/LexBridge-Intelligence/internal/application/analysis"
	"github.com/turtacn/LexBridge-Intelligence/internal/application/document"
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
	httpserver "github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
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
	logger = logger.Named("apiserver")
	logger.Info("starting", logging.String("version", version))

	if err := run(cfg, logger); err != nil {
		logger.Error("apiserver exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics. A registration failure only disables instrumentation.
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			logger.Warn("metrics disabled", logging.Err(err))
		} else {
			metrics = prometheus.NewAppMetrics(collector)
		}
	}

	// PostgreSQL is the system of record and is required.
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

	if cfg.Database.MigrationsPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
	}

	analysisRepo := repositories.NewAnalysisRepository(conn.Pool(), logger)
	documentRepo := repositories.NewDocumentRepository(conn.Pool(), logger)

	// Object storage holds raw document text and is required: uploads
	// and async analysis both depend on it.
	storeClient, err := minio.NewClient(minio.Config{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		Region:          cfg.MinIO.Region,
		Bucket:          cfg.MinIO.Bucket,
		PresignExpiry:   cfg.MinIO.PresignExpiry,
	}, logger)
	if err != nil {
		return fmt.Errorf("minio connection failed: %w", err)
	}
	textStore := minio.NewDocumentStore(storeClient, logger)

	// Redis, Kafka and OpenSearch are best-effort: the service degrades
	// to uncached, synchronous-only, unsearchable operation without them.
	checkers := []handlers.Checker{
		{Name: "postgres", Check: conn.HealthCheck},
		{Name: "minio", Check: storeClient.Ping},
	}

	var cache redis.Cache
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
		logger.Warn("redis unavailable, caching disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		cache = redis.NewRedisCache(redisClient, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		checkers = append(checkers, handlers.Checker{Name: "redis", Check: redisClient.Ping})
	}

	var producer *kafka.Producer
	producer, err = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:          cfg.Kafka.Brokers,
		Acks:             cfg.Kafka.RequiredAcks,
		MaxRetries:       cfg.Kafka.ProducerRetries,
		BatchSize:        cfg.Kafka.BatchSize,
		BatchTimeout:     cfg.Kafka.BatchTimeout,
		CompressionCodec: cfg.Kafka.Compression,
	}, logger)
	if err != nil {
		logger.Warn("kafka unavailable, async analysis disabled", logging.Err(err))
		producer = nil
	} else {
		defer producer.Close()
		checkers = append(checkers, handlers.Checker{
			Name:  "kafka",
			Check: kafkaDialCheck(cfg.Kafka.Brokers),
		})
	}

	var (
		indexer  *opensearch.Indexer
		searcher *opensearch.Searcher
	)
	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:          cfg.OpenSearch.Addresses,
		Username:           cfg.OpenSearch.User,
		Password:           cfg.OpenSearch.Password,
		InsecureSkipVerify: cfg.OpenSearch.InsecureSkipVerify,
		IndexPrefix:        cfg.OpenSearch.IndexPrefix,
	}, logger)
	if err != nil {
		logger.Warn("opensearch unavailable, search disabled", logging.Err(err))
	} else {
		indexer = opensearch.NewIndexer(osClient, logger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			logger.Warn("search index bootstrap failed", logging.Err(err))
		}
		searcher = opensearch.NewSearcher(osClient, logger)
		checkers = append(checkers, handlers.Checker{Name: "opensearch", Check: osClient.Ping})
	}

	// The LLM collaborator is advisory; analysis runs without it.
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

	analysisOpts := []analysis.ServiceOption{
		analysis.WithTextStore(textStore),
		analysis.WithDocuments(documentRepo),
		analysis.WithConfig(analysis.Config{
			CacheTTL:     cfg.Analysis.CacheTTL,
			MaxTextBytes: cfg.Analysis.MaxTextBytes,
		}),
	}
	if cache != nil {
		analysisOpts = append(analysisOpts, analysis.WithCache(cache))
	}
	if producer != nil {
		analysisOpts = append(analysisOpts, analysis.WithPublisher(producer))
	}
	if indexer != nil {
		analysisOpts = append(analysisOpts, analysis.WithIndexer(indexer))
	}
	if metrics != nil {
		analysisOpts = append(analysisOpts, analysis.WithMetrics(metrics))
	}
	analysisService, err := analysis.NewService(analysisRepo, orchestrator, logger, analysisOpts...)
	if err != nil {
		return fmt.Errorf("analysis service init failed: %w", err)
	}

	documentOpts := []document.ServiceOption{
		document.WithMaxTextBytes(cfg.Analysis.MaxTextBytes),
	}
	if metrics != nil {
		documentOpts = append(documentOpts, document.WithMetrics(metrics))
	}
	documentService, err := document.NewService(documentRepo, textStore, logger, documentOpts...)
	if err != nil {
		return fmt.Errorf("document service init failed: %w", err)
	}

	var searchSeam handlers.Searcher
	if searcher != nil {
		searchSeam = searcher
	}

	cors := middleware.DefaultCORSConfig()
	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnalysisHandler:  handlers.NewAnalysisHandler(analysisService),
		DocumentHandler:  handlers.NewDocumentHandler(documentService),
		SearchHandler:    handlers.NewSearchHandler(searchSeam),
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		Logger:           logger,
		Metrics:          metrics,
		CORS:             &cors,
		MetricsCollector: collector,
	})

	server := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	logger.Info("http server listening", logging.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// kafkaDialCheck probes the first reachable broker. The producer
// itself connects lazily, so a plain dial is the readiness signal.
func kafkaDialCheck(brokers []string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var lastErr error
		dialer := &net.Dialer{}
		for _, broker := range brokers {
			conn, err := dialer.DialContext(ctx, "tcp", broker)
			if err == nil {
				_ = conn.Close()
				return nil
			}
			lastErr = err
		}
		return lastErr
	}
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
