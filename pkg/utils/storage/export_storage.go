package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const DefaultRegion = "sa-east-1"

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // S3-compatible endpoint (R2, MinIO); empty for AWS
	AccessKey string
	SecretKey string
}

// ExportStorage archives CSV exports in an S3 bucket.
type ExportStorage struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

func NewExportStorage(ctx context.Context, cfg Config) (*ExportStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ExportStorage{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// Upload stores one export and returns its object key.
func (s *ExportStorage) Upload(ctx context.Context, label, contentType string, body []byte) (string, error) {
	key := ExportKey(label, s.now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(string(body)),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload export to S3: %w", err)
	}
	return key, nil
}

// ExportKey builds exports/<yyyy>/<mm>/<slug>-<timestamp>-<id>.csv.
func ExportKey(label string, at time.Time) string {
	name := slug.Make(label)
	if name == "" {
		name = "leads"
	}
	at = at.UTC()
	return fmt.Sprintf("exports/%04d/%02d/%s-%s-%s.csv",
		at.Year(), int(at.Month()), name, at.Format("20060102T150405"), uuid.NewString()[:8])
}
