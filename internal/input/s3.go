package input

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 SDK the source depends on. Narrowing it here
// lets tests drive listing and fetch behavior with a fake client.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads CSV exports from an S3 bucket. Objects are listed under a
// prefix, ordered lexicographically by key, and streamed through the same CSV
// parser as local files.
type S3Source struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Source creates an S3Source using the default AWS credential chain
// (environment variables, IAM roles, and profiles).
func NewS3Source(ctx context.Context, region, bucket, prefix string, logger *slog.Logger) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewS3SourceWithClient creates an S3Source over an existing client.
func NewS3SourceWithClient(client S3API, bucket, prefix string, logger *slog.Logger) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("component", "s3_source"),
	}
}

// Rows lists the CSV objects under the configured prefix and concatenates
// their rows in key order.
func (s *S3Source) Rows(ctx context.Context) ([]RawRow, error) {
	keys, err := s.listCSVKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no .csv objects found under s3://%s/%s", s.bucket, s.prefix)
	}

	var rows []RawRow
	for _, key := range keys {
		objectRows, err := s.readObject(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
		}
		s.logger.Debug("Read input object.", "key", key, "rows", len(objectRows))
		rows = append(rows, objectRows...)
	}
	return rows, nil
}

// listCSVKeys pages through ListObjectsV2 results and keeps .csv keys.
func (s *S3Source) listCSVKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var continuationToken *string

	for {
		inputParams := &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			ContinuationToken: continuationToken,
		}
		if s.prefix != "" {
			inputParams.Prefix = aws.String(s.prefix)
		}

		result, err := s.client.ListObjectsV2(ctx, inputParams)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", s.bucket, err)
		}

		for _, obj := range result.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(strings.ToLower(key), ".csv") {
				keys = append(keys, key)
			}
		}

		if !aws.ToBool(result.IsTruncated) {
			break
		}
		continuationToken = result.NextContinuationToken
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *S3Source) readObject(ctx context.Context, key string) ([]RawRow, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer result.Body.Close()

	return readRows(result.Body)
}
