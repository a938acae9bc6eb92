package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// PlaceholderCoverURL is used when an event cover upload fails; the event is
// still published.
const PlaceholderCoverURL = "https://static.ingresso.app/placeholders/event-cover.png"

// Uploader stores a binary object and returns its publicly retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
}

// Config mirrors the AWS section of the application config.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type s3Uploader struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
}

// NewS3Uploader builds an uploader backed by an S3 bucket. Static
// credentials are used when provided, otherwise the default chain applies
// (instance profile, env vars).
func NewS3Uploader(cfg Config) (Uploader, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &s3Uploader{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(path),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	result, err := u.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	if result.Location != "" {
		return result.Location, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, path), nil
}
