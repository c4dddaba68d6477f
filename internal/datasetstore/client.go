// Package datasetstore provides a client for the object store holding the
// institution reference dataset. It wraps the AWS S3 SDK configured for
// Cloudflare R2 and materializes the dataset on local disk, with streaming
// zstd decompression for compressed objects.
package datasetstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/klauspost/compress/zstd"

	"github.com/alumnibase/college-resolver-go/internal/logger"
)

// ErrNotFound is returned when a dataset object does not exist.
var ErrNotFound = errors.New("datasetstore: object not found")

// Config holds object store client configuration.
type Config struct {
	AccountID       string // R2 account ID; the endpoint is derived from it
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

// Client provides dataset object operations.
type Client struct {
	s3     *s3.Client
	bucket string
	log    *logger.Logger
}

// New creates a new dataset store client.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, errors.New("datasetstore: all config fields are required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("datasetstore: load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(Endpoint(cfg.AccountID))
		o.UsePathStyle = true // Required for R2
	})

	return &Client{
		s3:     s3Client,
		bucket: cfg.BucketName,
		log:    log.WithModule("datasetstore"),
	}, nil
}

// Endpoint returns the R2 endpoint URL for an account ID.
func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// Download downloads an object. Caller must close the body.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("datasetstore: download %q: %w", key, err)
	}
	return result.Body, nil
}

// EnsureLocal makes sure the dataset object is available at dstPath.
// If dstPath already exists it is left untouched. Otherwise the object is
// downloaded, decompressing when the key is zstd-compressed but the
// destination is not. The file is written via a temp path and renamed so a
// failed download never leaves a partial dataset behind.
func (c *Client) EnsureLocal(ctx context.Context, key, dstPath string) error {
	if _, err := os.Stat(dstPath); err == nil {
		c.log.WithField("path", dstPath).Debug("Dataset already present, skipping fetch")
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("datasetstore: stat %q: %w", dstPath, err)
	}

	if dir := filepath.Dir(dstPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("datasetstore: create dataset directory: %w", err)
		}
	}

	body, err := c.Download(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	decompress := strings.HasSuffix(key, ".zst") && !strings.HasSuffix(dstPath, ".zst")

	tmpPath := dstPath + ".tmp"
	if err := writeStream(body, tmpPath, decompress); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("datasetstore: rename dataset: %w", err)
	}

	c.log.WithField("key", key).WithField("path", dstPath).Info("Dataset fetched from object store")
	return nil
}

// writeStream copies src to dstPath, optionally through a zstd decoder.
func writeStream(src io.Reader, dstPath string, decompress bool) error {
	if decompress {
		decoder, err := zstd.NewReader(src)
		if err != nil {
			return fmt.Errorf("datasetstore: create decoder: %w", err)
		}
		defer decoder.Close()
		src = decoder
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("datasetstore: create dest: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("datasetstore: copy: %w", err)
	}
	return dst.Close()
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}
	return false
}
