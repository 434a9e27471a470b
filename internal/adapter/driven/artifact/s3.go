package artifact

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// S3API é o subconjunto do cliente S3 usado pelo sink.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink envia o PDF para um bucket, sob um prefixo opcional.
type S3Sink struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Sink creates a sink over an existing S3 client.
func NewS3Sink(client S3API, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3SinkFromConfig builds the S3 client from the default credential chain.
func NewS3SinkFromConfig(ctx context.Context, cfg types.ArtifactConfig) (*S3Sink, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("artifact.s3_bucket is required for the s3 sink")
	}
	var opts []func(*config.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, config.WithRegion(cfg.S3Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for S3: %w", err)
	}
	return NewS3Sink(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
}

// Store uploads the report and returns its s3:// location.
func (s *S3Sink) Store(ctx context.Context, report *entity.GeneratedReport) (string, error) {
	key := path.Join(s.prefix, report.ID, report.Filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(report.Data),
		ContentType:        aws.String(report.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", report.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading report to s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// New selects the sink configured in cfg.
func New(ctx context.Context, cfg types.ArtifactConfig, outputDir string) (repository.ArtifactSink, error) {
	switch cfg.Sink {
	case "", "local":
		return NewLocalSink(outputDir), nil
	case "s3":
		return NewS3SinkFromConfig(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported artifact sink: %s", cfg.Sink)
}

var _ repository.ArtifactSink = (*S3Sink)(nil)
