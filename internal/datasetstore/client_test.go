package datasetstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alumnibase/college-resolver-go/internal/logger"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()
	log := logger.NewWithWriter("error", io.Discard)

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty config", cfg: Config{}},
		{
			name: "missing secret",
			cfg: Config{
				AccountID:   "acct",
				AccessKeyID: "key",
				BucketName:  "datasets",
			},
		},
		{
			name: "missing bucket",
			cfg: Config{
				AccountID:       "acct",
				AccessKeyID:     "key",
				SecretAccessKey: "secret",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(context.Background(), tt.cfg, log)
			assert.Error(t, err)
		})
	}
}

func TestEndpoint(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://acct-123.r2.cloudflarestorage.com", Endpoint("acct-123"))
}

func TestWriteStream(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "institutions.json")

	require.NoError(t, writeStream(bytes.NewReader([]byte(`[{"id":1}]`)), path, false))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))
}

func TestWriteStreamDecompress(t *testing.T) {
	t.Parallel()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(`[{"id":1}]`), nil)
	require.NoError(t, enc.Close())

	path := filepath.Join(t.TempDir(), "institutions.json")
	require.NoError(t, writeStream(bytes.NewReader(compressed), path, true))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))
}
