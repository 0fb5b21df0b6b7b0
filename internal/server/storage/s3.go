package storage

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
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/google/uuid"
)

// S3ClientAPI is the part of the S3 client the uploader needs.
type S3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options describe the S3 endpoint and credentials.
type Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// Allow tests to replace these.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds a path-style client with static credentials, which is
// what MinIO and most S3-compatible stores expect.
func NewS3Client(ctx context.Context, opts Options) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(opts.BaseEndpoint, "/"))
		}
		o.UsePathStyle = true
	}), nil
}

// S3Uploader implements ImageUploader with PutObject.
type S3Uploader struct {
	client  S3ClientAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

// NewS3Uploader creates an uploader; returned URLs are baseURL/bucket/key.
func NewS3Uploader(client S3ClientAPI, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (u *S3Uploader) objectKey(contentType string) string {
	d := u.now().UTC()
	return fmt.Sprintf("images/%04d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), extensions[contentType])
}

// Upload stores payload and returns its URL. Remote http(s) URLs are kept by
// reference and not re-hosted.
func (u *S3Uploader) Upload(ctx context.Context, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if isRemoteURL(payload) {
		return payload, nil
	}

	img, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	key := u.objectKey(img.contentType)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.data),
		ContentType:   aws.String(img.contentType),
		ContentLength: aws.Int64(int64(len(img.data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %v", common.ErrorInternal, err)
	}

	return fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, key), nil
}
