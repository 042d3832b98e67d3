package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/config"
	"github.com/rpupo63/teamforge-backend/errs"
)

const (
	s3MaxAttempts    = 5
	s3ConnectTimeout = 5 * time.Second
	s3ReadTimeout    = 30 * time.Second
	presignCacheSize = 4096
)

// S3Storage keeps media in a private S3 bucket.
type S3Storage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	urls       *expirable.LRU[string, string]
	logger     zerolog.Logger
}

var _ Storage = (*S3Storage)(nil)

func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errs.NewConfigError("S3_BUCKET")
	}

	httpClient := awshttp.NewBuildableClient().
		WithTimeout(s3ReadTimeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = s3ConnectTimeout
		})

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(s3MaxAttempts),
		awsconfig.WithHTTPClient(httpClient),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &S3Storage{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
		// a cached URL is handed out only during the first half of its validity
		urls:   expirable.NewLRU[string, string](presignCacheSize, nil, ttl/2),
		logger: log.With().Str("component", "s3Storage").Str("bucket", cfg.Bucket).Logger(),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(CacheControl),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return errs.NewStorageError("put", key, err)
	}
	s.logger.Info().Str("key", key).Str("size", humanize.Bytes(uint64(max(size, 0)))).Msg("Uploaded object")
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete", key, err)
	}
	s.urls.Remove(key)
	return nil
}

func (s *S3Storage) PresignGet(ctx context.Context, key string) (string, error) {
	if url, ok := s.urls.Get(key); ok {
		return url, nil
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", errs.NewStorageError("presign", key, err)
	}
	s.urls.Add(key, req.URL)
	return req.URL, nil
}
