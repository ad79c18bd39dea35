package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	appconfig "lpg-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores proof-of-delivery and payment images in an S3-compatible
// bucket (Cloudflare R2 in production) and hands back a public URL.
type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewUploader builds an Uploader from config. Returns nil (disabled) when no
// endpoint is configured; callers treat a nil uploader as "uploads off".
func NewUploader(cfg *appconfig.Config) *Uploader {
	if cfg.Storage.Endpoint == "" || cfg.Storage.Bucket == "" {
		log.Printf("[Storage] No object storage configured, proof uploads disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		log.Printf("[Storage] Failed to configure storage client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
	})

	return &Uploader{
		client:    client,
		bucket:    cfg.Storage.Bucket,
		publicURL: strings.TrimRight(cfg.Storage.PublicURL, "/"),
	}
}

// Upload puts an object and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if u == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return u.publicURL + "/" + key, nil
}
