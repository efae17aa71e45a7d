package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/streamtube/streamtube/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Uploader uploads media to an S3-compatible backend (MinIO in dev).
type S3Uploader struct {
	config *sc.Config
}

func NewS3Uploader(cfg *sc.Config) *S3Uploader {
	return &S3Uploader{config: cfg}
}

// RandomStorageKey returns a date-partitioned object key under prefix,
// e.g. "avatars/2026/8/29/<uuid>".
func RandomStorageKey(prefix string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%v", prefix, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3RootUser,     // MINIO_ROOT_USER
			u.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload stores data under key and returns the object's public URL.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := u.config.S3Bucket

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = &contentType
	}

	if _, err := putObject(client, ctx, in); err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	base := strings.TrimSuffix(u.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", base, u.config.S3Bucket, key)
}
