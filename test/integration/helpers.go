//go:build integration

// Package integration exercises the full stack — HTTP router,
// application services, rule engines and PostgreSQL — against a real
// database in a container. The tests require Docker and are gated
// behind the "integration" build tag.
package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	appanalysis "github.com/turtacn/LexBridge-Intelligence/internal/application/analysis"
	appdocument "github.com/turtacn/LexBridge-Intelligence/internal/application/document"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/LexBridge-Intelligence/pkg/client"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// migrationsDir is relative to this package's directory.
const migrationsDir = "../../migrations"

// memoryTextStore keeps document blobs in memory so the stack needs no
// object-storage container. It satisfies the application-layer store
// seams of both services.
type memoryTextStore struct {
	mu    sync.Mutex
	blobs map[string]*minio.FetchResult
}

func newMemoryTextStore() *memoryTextStore {
	return &memoryTextStore{blobs: make(map[string]*minio.FetchResult)}
}

func (s *memoryTextStore) Put(_ context.Context, req *minio.PutRequest) (*minio.PutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[req.DocumentID] = &minio.FetchResult{
		Text:        append([]byte(nil), req.Text...),
		ContentType: req.ContentType,
		Size:        int64(len(req.Text)),
		Metadata:    req.Metadata,
	}
	return &minio.PutResult{
		Key:        minio.DocumentKey(req.DocumentID),
		Size:       int64(len(req.Text)),
		UploadedAt: time.Now(),
	}, nil
}

func (s *memoryTextStore) Fetch(_ context.Context, documentID string) (*minio.FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.blobs[documentID]
	if !ok {
		return nil, errors.NewNotFound("document object", documentID)
	}
	return blob, nil
}

// stack is one fully wired application over a containerized database.
type stack struct {
	Pool     *pgxpool.Pool
	Server   *httptest.Server
	SDK      *client.Client
	Store    *memoryTextStore
	Analysis appanalysis.Service
}

// startPostgres launches PostgreSQL 16 and applies the real migration
// files so schema drift shows up here first.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "lexbridge_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/lexbridge_test?sslmode=disable", host, port.Port())
	require.NoError(t, postgres.RunMigrations(dsn, migrationsDir))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// newStack wires the real services over the container. Kafka, Redis and
// OpenSearch stay out: the service degrades to synchronous, uncached
// operation, which is exactly the path under test here.
func newStack(t *testing.T) *stack {
	t.Helper()
	logger := logging.NewNopLogger()
	pool := startPostgres(t)

	analysisRepo := repositories.NewAnalysisRepository(pool, logger)
	documentRepo := repositories.NewDocumentRepository(pool, logger)
	store := newMemoryTextStore()

	orchestrator := appanalysis.NewOrchestrator(nil, appanalysis.WithOrchestratorLogger(logger))
	analysisService, err := appanalysis.NewService(analysisRepo, orchestrator, logger,
		appanalysis.WithTextStore(store),
		appanalysis.WithDocuments(documentRepo),
	)
	require.NoError(t, err)

	documentService, err := appdocument.NewService(documentRepo, store, logger)
	require.NoError(t, err)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(analysisService),
		DocumentHandler: handlers.NewDocumentHandler(documentService),
		HealthHandler:   handlers.NewHealthHandler("integration-test"),
		Logger:          logger,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	sdk, err := client.NewClient(server.URL)
	require.NoError(t, err)

	return &stack{
		Pool:     pool,
		Server:   server,
		SDK:      sdk,
		Store:    store,
		Analysis: analysisService,
	}
}
