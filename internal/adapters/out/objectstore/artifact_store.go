// Package objectstore provides the MinIO-backed implementation of the
// artifact store. Error reports and other job outcome artifacts live in one
// bucket; the key layout is owned by the callers.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"fulfillment/internal/pkg/errs"

	"github.com/minio/minio-go/v7"
)

// objectAPI is the slice of the MinIO client the store uses. Narrowing the
// dependency keeps the store testable without a running object server.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader,
		objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// minioAPI adapts *minio.Client to objectAPI. PutObject narrows the reader
// type; everything else passes through.
type minioAPI struct {
	client *minio.Client
}

func (a minioAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return a.client.BucketExists(ctx, bucketName)
}

func (a minioAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return a.client.MakeBucket(ctx, bucketName, opts)
}

func (a minioAPI) PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader,
	objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.client.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

// GetObject reads the whole object into memory. A missing key comes back as
// nil bytes; MinIO only reports NoSuchKey on the first read, not on open.
func (a minioAPI) GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (a minioAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return a.client.RemoveObject(ctx, bucketName, objectName, opts)
}

// MinioArtifactStore implements ArtifactStore on a MinIO bucket.
type MinioArtifactStore struct {
	api    objectAPI
	bucket string
}

// NewMinioArtifactStore creates an artifact store on the given bucket,
// creating the bucket when it does not exist yet.
func NewMinioArtifactStore(ctx context.Context, client *minio.Client, bucket string) (*MinioArtifactStore, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return newStore(ctx, minioAPI{client: client}, bucket)
}

func newStore(ctx context.Context, api objectAPI, bucket string) (*MinioArtifactStore, error) {
	if bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err = api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	return &MinioArtifactStore{api: api, bucket: bucket}, nil
}

// Put stores an artifact under the given key and returns the stable
// reference persisted on the job.
func (s *MinioArtifactStore) Put(ctx context.Context, key, contentType string, payload []byte) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}

	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("store artifact %q: %w", key, err)
	}

	return fmt.Sprintf("minio://%s/%s", s.bucket, key), nil
}

// Get retrieves a stored artifact. A missing key returns nil bytes with no
// error, so callers can append to an artifact that may not exist yet.
func (s *MinioArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}

	data, err := s.api.GetObject(ctx, s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("load artifact %q: %w", key, err)
	}
	return data, nil
}

// Remove deletes a stored artifact. Removing a missing key is not an error;
// MinIO treats that as a no-op and so do we.
func (s *MinioArtifactStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("key")
	}

	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove artifact %q: %w", key, err)
	}
	return nil
}
