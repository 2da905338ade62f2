package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// ObjectPutter is the part of the S3 client the sink uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads each result as one object.
type S3Sink struct {
	client   ObjectPutter
	bucket   string
	prefix   string
	compress bool
	logger   logging.Logger
}

// NewS3Client builds a path-style client. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// NewS3Sink connects to the bucket named in cfg.
func NewS3Sink(ctx context.Context, cfg Config, logger logging.Logger) (*S3Sink, error) {
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3SinkWithClient(client, cfg.Bucket, cfg.Prefix, cfg.Compress, logger), nil
}

// NewS3SinkWithClient uploads through client.
func NewS3SinkWithClient(client ObjectPutter, bucket, prefix string, compress bool, logger logging.Logger) *S3Sink {
	return &S3Sink{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		compress: compress,
		logger:   logging.OrDefault(logger),
	}
}

func (s *S3Sink) Name() string { return KindS3 }

func (s *S3Sink) Write(ctx context.Context, results []*network.Result) (int, error) {
	contentType := "application/json"
	if s.compress {
		contentType = "application/x-snappy"
	}

	total := 0
	for _, r := range results {
		data, err := Encode(r, s.compress)
		if err != nil {
			return total, err
		}
		key := ObjectKey(s.prefix, r, s.compress)
		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
			Metadata: map[string]string{
				"status":   string(r.Status),
				"category": r.Category,
			},
		})
		if err != nil {
			return total, fmt.Errorf("failed to upload %s to S3: %w", key, err)
		}
		total += len(data)
		s.logger.Debug("result uploaded", logging.String("bucket", s.bucket), logging.String("key", key))
	}
	return total, nil
}

func (s *S3Sink) Close() error { return nil }
