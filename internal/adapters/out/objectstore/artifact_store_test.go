package objectstore

import (
	"bytes"
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader,
	objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockObjectAPI) GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	args := m.Called(ctx, bucketName, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func TestNewStore_CreatesMissingBucket(t *testing.T) {
	t.Run("should create the bucket when it does not exist", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(false, nil).Once()
		api.On("MakeBucket", ctx, "artifacts", minio.MakeBucketOptions{}).Return(nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)
		require.NotNil(t, store)
		api.AssertExpectations(t)
	})

	t.Run("should leave an existing bucket alone", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()

		_, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)
		api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should require a bucket name", func(t *testing.T) {
		_, err := newStore(context.Background(), &MockObjectAPI{}, "")
		require.Error(t, err)
	})
}

func TestMinioArtifactStore_Put(t *testing.T) {
	t.Run("should upload the payload and return a stable reference", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()

		payload := []byte("row,reference,error\n")
		api.On("PutObject", ctx, "artifacts", "imports/errors/j1.csv",
			mock.Anything, int64(len(payload)),
			minio.PutObjectOptions{ContentType: "text/csv"},
		).Return(minio.UploadInfo{}, nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)

		ref, err := store.Put(ctx, "imports/errors/j1.csv", "text/csv", payload)
		require.NoError(t, err)
		assert.Equal(t, "minio://artifacts/imports/errors/j1.csv", ref)
		api.AssertExpectations(t)
	})

	t.Run("should require a key", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)

		_, err = store.Put(ctx, "", "text/csv", nil)
		require.Error(t, err)
	})
}

func TestMinioArtifactStore_Get(t *testing.T) {
	t.Run("should return the stored payload", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()
		api.On("GetObject", ctx, "artifacts", "imports/errors/j1.csv").
			Return([]byte("row,reference,error\n"), nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)

		data, err := store.Get(ctx, "imports/errors/j1.csv")
		require.NoError(t, err)
		assert.Equal(t, []byte("row,reference,error\n"), data)
		api.AssertExpectations(t)
	})

	t.Run("should return nil for a missing key", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()
		api.On("GetObject", ctx, "artifacts", "imports/errors/gone.csv").
			Return(nil, nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)

		data, err := store.Get(ctx, "imports/errors/gone.csv")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("should require a key", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)

		_, err = store.Get(ctx, "")
		require.Error(t, err)
	})
}

func TestMinioArtifactStore_Remove(t *testing.T) {
	t.Run("should delete the object", func(t *testing.T) {
		ctx := context.Background()
		api := &MockObjectAPI{}
		api.On("BucketExists", ctx, "artifacts").Return(true, nil).Once()
		api.On("RemoveObject", ctx, "artifacts", "imports/errors/j1.csv",
			minio.RemoveObjectOptions{}).Return(nil).Once()

		store, err := newStore(ctx, api, "artifacts")
		require.NoError(t, err)

		err = store.Remove(ctx, "imports/errors/j1.csv")
		require.NoError(t, err)
		api.AssertExpectations(t)
	})
}
