package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

var ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "document object not found")

const (
	documentPrefix = "documents/"
	textSuffix     = ".txt"

	defaultContentType = "text/plain; charset=utf-8"
)

// DocumentKey returns the object key holding a document's raw text.
func DocumentKey(documentID string) string {
	return documentPrefix + documentID + textSuffix
}

// DocumentStore persists raw document text keyed by document ID.
type DocumentStore interface {
	Put(ctx context.Context, req *PutRequest) (*PutResult, error)
	Fetch(ctx context.Context, documentID string) (*FetchResult, error)
	Delete(ctx context.Context, documentID string) error
	Exists(ctx context.Context, documentID string) (bool, error)
	List(ctx context.Context, limit int) ([]*StoredObject, error)
	PresignGet(ctx context.Context, documentID string, expiry time.Duration) (string, error)
	PresignPut(ctx context.Context, documentID string, expiry time.Duration) (string, error)
}

// PutRequest uploads one document's text.
type PutRequest struct {
	DocumentID  string
	Text        []byte
	ContentType string
	Metadata    map[string]string
}

// PutResult reports a stored object.
type PutResult struct {
	Key        string
	ETag       string
	Size       int64
	UploadedAt time.Time
}

// FetchResult carries a document's text and object metadata.
type FetchResult struct {
	Text         []byte
	ContentType  string
	Size         int64
	ETag         string
	Metadata     map[string]string
	LastModified time.Time
}

// StoredObject describes one listed object.
type StoredObject struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

type documentStore struct {
	api           MinIOAPI
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewDocumentStore builds a DocumentStore on the client's bucket.
func NewDocumentStore(client *Client, logger logging.Logger) DocumentStore {
	return &documentStore{
		api:           client.api,
		bucket:        client.config.Bucket,
		presignExpiry: client.config.PresignExpiry,
		logger:        logger,
	}
}

func (s *documentStore) Put(ctx context.Context, req *PutRequest) (*PutResult, error) {
	if req.DocumentID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document id required")
	}
	if len(req.Text) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "document text required")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := DocumentKey(req.DocumentID)
	info, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(req.Text), int64(len(req.Text)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: req.Metadata,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "document upload failed")
	}

	s.logger.Debug("Document stored",
		logging.String("key", key),
		logging.Int64("size", info.Size))

	return &PutResult{
		Key:        key,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now(),
	}, nil
}

func (s *documentStore) Fetch(ctx context.Context, documentID string) (*FetchResult, error) {
	key := DocumentKey(documentID)
	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "document download failed")
	}
	defer obj.Close()

	// GetObject is lazy; missing keys surface at Stat.
	stat, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "document stat failed")
	}

	text, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "document read failed")
	}

	return &FetchResult{
		Text:         text,
		ContentType:  stat.ContentType,
		Size:         stat.Size,
		ETag:         stat.ETag,
		Metadata:     stat.UserMetadata,
		LastModified: stat.LastModified,
	}, nil
}

func (s *documentStore) Delete(ctx context.Context, documentID string) error {
	key := DocumentKey(documentID)
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "document delete failed")
	}
	s.logger.Debug("Document deleted", logging.String("key", key))
	return nil
}

func (s *documentStore) Exists(ctx context.Context, documentID string) (bool, error) {
	_, err := s.api.StatObject(ctx, s.bucket, DocumentKey(documentID), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeInternal, "document stat failed")
	}
	return true, nil
}

func (s *documentStore) List(ctx context.Context, limit int) ([]*StoredObject, error) {
	if limit <= 0 {
		limit = 1000
	}

	ch := s.api.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    documentPrefix,
		Recursive: true,
	})

	var objects []*StoredObject
	for obj := range ch {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeInternal, "document list failed")
		}
		objects = append(objects, &StoredObject{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
		if len(objects) >= limit {
			break
		}
	}
	return objects, nil
}

func (s *documentStore) PresignGet(ctx context.Context, documentID string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = s.presignExpiry
	}
	u, err := s.api.PresignedGetObject(ctx, s.bucket, DocumentKey(documentID), expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "presign download failed")
	}
	return u.String(), nil
}

func (s *documentStore) PresignPut(ctx context.Context, documentID string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = s.presignExpiry
	}
	u, err := s.api.PresignedPutObject(ctx, s.bucket, DocumentKey(documentID), expiry)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "presign upload failed")
	}
	return u.String(), nil
}
