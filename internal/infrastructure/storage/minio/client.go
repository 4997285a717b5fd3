// Package minio keeps raw legal document text in S3-compatible object
// storage. Analyses never carry text on the bus; workers fetch it here
// by document ID.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// MinIOAPI is the slice of minio.Client the platform touches,
// abstracted for tests.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucket string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (ObjectReader, error)
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (*url.URL, error)
}

// ObjectReader is a readable object handle. minio.Object satisfies it.
type ObjectReader interface {
	io.ReadCloser
	Stat() (minio.ObjectInfo, error)
}

// minioAPI adapts *minio.Client to MinIOAPI. Only GetObject needs a
// wrapper; the embedded methods line up as-is.
type minioAPI struct {
	*minio.Client
}

func (a minioAPI) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (ObjectReader, error) {
	obj, err := a.Client.GetObject(ctx, bucket, object, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Config holds object storage settings.
type Config struct {
	Endpoint        string        `yaml:"endpoint"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	UseSSL          bool          `yaml:"use_ssl"`
	Region          string        `yaml:"region"`
	Bucket          string        `yaml:"bucket"`
	PresignExpiry   time.Duration `yaml:"presign_expiry"`
	// StaleUploadDays controls when abandoned multipart uploads from
	// expired presigned PUT sessions are aborted.
	StaleUploadDays int `yaml:"stale_upload_days"`
}

// Client wraps the object storage connection and owns the bucket.
type Client struct {
	api    MinIOAPI
	config Config
	logger logging.Logger
}

// NewClient connects, verifies reachability and ensures the document
// bucket exists.
func NewClient(cfg Config, logger logging.Logger) (*Client, error) {
	applyDefaults(&cfg)

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build minio client")
	}

	return newClientWithAPI(minioAPI{mc}, cfg, logger)
}

func newClientWithAPI(api MinIOAPI, cfg Config, logger logging.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio connection failed")
	}

	c := &Client{
		api:    api,
		config: cfg,
		logger: logger,
	}

	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}
	c.applyLifecycleRules(ctx)

	logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "lexbridge-documents"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = 1 * time.Hour
	}
	if cfg.StaleUploadDays == 0 {
		cfg.StaleUploadDays = 7
	}
}

// Bucket returns the document bucket name.
func (c *Client) Bucket() string {
	return c.config.Bucket
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to create bucket %s", c.config.Bucket))
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// applyLifecycleRules aborts multipart uploads left behind by expired
// presigned PUT sessions. Not every S3-compatible backend accepts the
// lifecycle API, so a failure only warns.
func (c *Client) applyLifecycleRules(ctx context.Context) {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     "abort-stale-uploads",
			Status: "Enabled",
			AbortIncompleteMultipartUpload: lifecycle.AbortIncompleteMultipartUpload{
				DaysAfterInitiation: lifecycle.ExpirationDays(c.config.StaleUploadDays),
			},
		},
	}
	if err := c.api.SetBucketLifecycle(ctx, c.config.Bucket, lc); err != nil {
		c.logger.Warn("Failed to apply bucket lifecycle", logging.Err(err))
	}
}

// Ping verifies the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio ping failed")
	}
	return nil
}

// HealthStatus reports backend reachability and bucket presence.
type HealthStatus struct {
	Healthy      bool
	Latency      time.Duration
	BucketExists bool
	Error        string
}

// HealthCheck probes the backend and the document bucket.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	_, err := c.api.ListBuckets(ctx)
	status := &HealthStatus{Latency: time.Since(start)}
	if err != nil {
		status.Error = err.Error()
		return status
	}

	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.BucketExists = exists
	status.Healthy = exists
	if !exists {
		status.Error = fmt.Sprintf("bucket %s missing", c.config.Bucket)
	}
	return status
}
