package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectConfig contains configuration for S3 or an S3-compatible store
// such as Cloudflare R2.
type ObjectConfig struct {
	Region      string // "auto" for R2
	Endpoint    string // empty for AWS
	AccessKeyID string // empty uses the default credential chain
	SecretKey   string
}

// ObjectReader fetches whole objects from a bucket.
type ObjectReader struct {
	client *s3.Client
}

// NewObjectReader builds an S3 client. Static credentials are used when
// both keys are set.
func NewObjectReader(ctx context.Context, cfg ObjectConfig) (*ObjectReader, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ObjectReader{client: client}, nil
}

// Open returns the object body. The caller must close it.
func (r *ObjectReader) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrObjectNotFound(bucket, key)
		}
		return nil, wrapStorageError(codeUnavailable, "failed to get object", err)
	}

	return result.Body, nil
}

func isNotFoundError(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	var nsb *types.NoSuchBucket
	return errors.As(err, &nsk) || errors.As(err, &nf) || errors.As(err, &nsb)
}
