package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/seedlink/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ============================================================================
// Fake S3 client
// ============================================================================

type fakeS3 struct {
	mu            sync.Mutex
	objects       map[string][]byte
	contentTypes  map[string]string
	putErr        error
	headBucketErr error
	createErr     error
	createdBucket string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.objects[key] = data
	f.contentTypes[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headBucketErr != nil {
		return nil, f.headBucketErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdBucket = aws.ToString(params.Bucket)
	return &s3.CreateBucketOutput{}, nil
}

func baseConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:   true,
		Bucket:    "test-bucket",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  "http://localhost:9000",
		Prefix:    "catalogues",
	}
}

// ============================================================================
// Construction
// ============================================================================

func TestNewS3Publisher_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Publisher(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Bucket = ""
		_, err := NewS3Publisher(cfg)
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := baseConfig()
		cfg.AccessKey = ""
		_, err := NewS3Publisher(cfg)
		assert.ErrorContains(t, err, "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := baseConfig()
		cfg.SecretKey = ""
		_, err := NewS3Publisher(cfg)
		assert.ErrorContains(t, err, "secret key is required")
	})

	t.Run("valid config builds a real client", func(t *testing.T) {
		publisher, err := NewS3Publisher(baseConfig(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", publisher.Bucket())
		assert.IsType(t, &s3.Client{}, publisher.client)
	})

	t.Run("endpoint without scheme", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Endpoint = "minio:9000"
		cfg.UseSSL = true
		_, err := NewS3Publisher(cfg)
		require.NoError(t, err)
	})

	t.Run("empty endpoint uses AWS default", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Endpoint = ""
		_, err := NewS3Publisher(cfg)
		require.NoError(t, err)
	})
}

func TestS3Publisher_Key(t *testing.T) {
	publisher, err := NewS3Publisher(baseConfig(), WithClient(newFakeS3()))
	require.NoError(t, err)
	assert.Equal(t, "catalogues/catalogue_abc.pdf", publisher.Key("catalogue_abc.pdf"))

	cfg := baseConfig()
	cfg.Prefix = "/"
	bare, err := NewS3Publisher(cfg, WithClient(newFakeS3()))
	require.NoError(t, err)
	assert.Equal(t, "catalogue_abc.pdf", bare.Key("catalogue_abc.pdf"))
}

// ============================================================================
// Publish
// ============================================================================

func TestS3Publisher_Publish(t *testing.T) {
	client := newFakeS3()
	publisher, err := NewS3Publisher(baseConfig(), WithClient(client), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalogue_abc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 data"), 0o644))

	key, err := publisher.Publish(context.Background(), "catalogue_abc.pdf", path)
	require.NoError(t, err)

	assert.Equal(t, "catalogues/catalogue_abc.pdf", key)
	assert.Equal(t, []byte("%PDF-1.4 data"), client.objects["test-bucket/catalogues/catalogue_abc.pdf"])
	assert.Equal(t, "application/pdf", client.contentTypes["test-bucket/catalogues/catalogue_abc.pdf"])
}

func TestS3Publisher_Publish_Errors(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		publisher, err := NewS3Publisher(baseConfig(), WithClient(newFakeS3()))
		require.NoError(t, err)

		_, err = publisher.Publish(context.Background(), "", "/tmp/x.pdf")
		assert.ErrorContains(t, err, "file name is required")
	})

	t.Run("missing file", func(t *testing.T) {
		publisher, err := NewS3Publisher(baseConfig(), WithClient(newFakeS3()))
		require.NoError(t, err)

		_, err = publisher.Publish(context.Background(), "a.pdf", filepath.Join(t.TempDir(), "a.pdf"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("upload failure", func(t *testing.T) {
		client := newFakeS3()
		client.putErr = errors.New("access denied")
		publisher, err := NewS3Publisher(baseConfig(), WithClient(client))
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "a.pdf")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err = publisher.Publish(context.Background(), "a.pdf", path)
		assert.ErrorContains(t, err, "failed to upload object: access denied")
	})
}

// ============================================================================
// EnsureBucket
// ============================================================================

func TestS3Publisher_EnsureBucket(t *testing.T) {
	t.Run("bucket exists", func(t *testing.T) {
		client := newFakeS3()
		publisher, err := NewS3Publisher(baseConfig(), WithClient(client))
		require.NoError(t, err)

		require.NoError(t, publisher.EnsureBucket(context.Background()))
		assert.Empty(t, client.createdBucket)
	})

	t.Run("creates missing bucket", func(t *testing.T) {
		client := newFakeS3()
		client.headBucketErr = &types.NotFound{}
		publisher, err := NewS3Publisher(baseConfig(), WithClient(client))
		require.NoError(t, err)

		require.NoError(t, publisher.EnsureBucket(context.Background()))
		assert.Equal(t, "test-bucket", client.createdBucket)
	})

	t.Run("ignores bucket already owned", func(t *testing.T) {
		client := newFakeS3()
		client.headBucketErr = &types.NoSuchBucket{}
		client.createErr = &types.BucketAlreadyOwnedByYou{}
		publisher, err := NewS3Publisher(baseConfig(), WithClient(client))
		require.NoError(t, err)

		assert.NoError(t, publisher.EnsureBucket(context.Background()))
	})

	t.Run("propagates other errors", func(t *testing.T) {
		client := newFakeS3()
		client.headBucketErr = errors.New("connection refused")
		publisher, err := NewS3Publisher(baseConfig(), WithClient(client))
		require.NoError(t, err)

		assert.ErrorContains(t, publisher.EnsureBucket(context.Background()), "failed to check bucket existence")
	})
}
