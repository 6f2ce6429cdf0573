package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectReader struct {
	mock.Mock
}

func (m *mockObjectReader) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://prices/2024/costs.csv")
	require.NoError(t, err)
	assert.Equal(t, "prices", bucket)
	assert.Equal(t, "2024/costs.csv", key)

	for _, bad := range []string{"prices/costs.csv", "s3://", "s3://bucket", "s3:///key"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpen_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costs.csv")
	require.NoError(t, os.WriteFile(path, []byte("sku,cost_price\n"), 0o600))

	rc, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "sku,cost_price\n", string(body))
}

func TestOpen_S3Source(t *testing.T) {
	reader := new(mockObjectReader)
	reader.On("GetObject", mock.Anything, "prices", "costs.csv").
		Return(io.NopCloser(strings.NewReader("sku,cost_price\n")), nil).Once()

	rc, err := Open(context.Background(), "s3://prices/costs.csv", reader)
	require.NoError(t, err)
	rc.Close()
	reader.AssertExpectations(t)

	_, err = Open(context.Background(), "s3://prices/costs.csv", nil)
	assert.ErrorIs(t, err, ErrNoObjectReader)
}
