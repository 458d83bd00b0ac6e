package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myflix/movieapi/config"
)

type fakeBackend struct {
	objects map[string][]byte
	ensured bool
	closed  bool
}

func (f *fakeBackend) EnsureBucket(context.Context) error {
	f.ensured = true
	return nil
}

func (f *fakeBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBackend) Bucket() string { return "posters" }

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestStorage_DelegatesToBackend(t *testing.T) {
	backend := &fakeBackend{objects: map[string][]byte{}}
	s := NewStorage(backend)
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, backend.ensured)
	assert.Equal(t, "posters", s.Bucket())

	require.NoError(t, s.Put(ctx, "posters/1.png", strings.NewReader("png"), 3, "image/png"))
	rc, err := s.Get(ctx, "posters/1.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(ctx, "posters/1.png"))
	_, err = s.Get(ctx, "posters/1.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, s.Close())
	assert.True(t, backend.closed)
}

func TestOpen_Disabled(t *testing.T) {
	for _, backend := range []string{"", config.BackendNone} {
		s, err := Open(context.Background(), config.StorageConfig{Backend: backend})
		require.NoError(t, err)
		assert.Nil(t, s)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.ErrorContains(t, err, `unknown storage backend "ftp"`)
}

func TestNewMinioClient_RequiresSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinioConfig
		want string
	}{
		{"endpoint", config.MinioConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, "endpoint is required"},
		{"credentials", config.MinioConfig{Endpoint: "localhost:9000", Bucket: "b"}, "secret key are required"},
		{"bucket", config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinioClient(tt.cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewGCSClient_RequiresBucket(t *testing.T) {
	_, err := NewGCSClient(context.Background(), config.GCSConfig{})
	assert.ErrorContains(t, err, "gcs bucket is required")
}
