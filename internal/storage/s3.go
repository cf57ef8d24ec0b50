// Package storage uploads user assets (currently business logos) to an
// S3-compatible object store and hands back public URLs for them.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/billkazi/billkazi/internal/config"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
)

var allowedLogoContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Client wraps the AWS S3 client for asset uploads.
type Client struct {
	s3  *s3.Client
	cfg config.StorageConfig
	log *logger.Logger
}

func NewClient(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load object storage credentials").
			Mark(ierr.ErrSystem)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: client, cfg: cfg, log: log}, nil
}

// UploadLogo stores a business logo under a per-user key, replacing any
// previous logo, and returns the public URL to persist on the profile.
func (c *Client) UploadLogo(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	ext, ok := allowedLogoContentTypes[contentType]
	if !ok {
		return "", ierr.NewErrorf("unsupported logo content type: %s", contentType).
			WithHint("Logo must be a PNG, JPEG or WebP image").
			WithReportableDetails(map[string]any{"content_type": contentType}).
			Mark(ierr.ErrValidation)
	}

	key := fmt.Sprintf("logos/%s%s", userID, ext)
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to upload logo").
			WithReportableDetails(map[string]any{"bucket": c.cfg.Bucket, "key": key}).
			Mark(ierr.ErrSystem)
	}

	url := c.publicURL(key)
	c.log.Infow("uploaded logo", "user_id", userID, "key", key, "url", url)
	return url, nil
}

func (c *Client) publicURL(key string) string {
	if c.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(c.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.cfg.Bucket, c.cfg.Region, key)
}
