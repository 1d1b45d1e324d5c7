package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/sherlockbot/cv-review-backend/internal/config"
)

// S3FileStore keeps uploaded CVs and rendered reports in an S3 bucket.
// Refs handed back to callers are object keys, opaque to the rest of the
// system.
type S3FileStore struct {
	client *s3.Client
	bucket string
}

// NewS3FileStore connects to S3 with static credentials from the config.
func NewS3FileStore(ctx context.Context, cfg *config.Config) (*S3FileStore, error) {
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	log.Println("Connected to AWS S3")

	return &S3FileStore{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.BucketName,
	}, nil
}

// Store uploads the document under a per-user prefix and returns its key.
func (f *S3FileStore) Store(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	ext := "bin"
	folder := "cv-uploads"
	switch contentType {
	case "application/pdf":
		ext = "pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		ext = "docx"
	case "application/msword":
		ext = "doc"
	case "text/html":
		// Rendered review reports live under their own prefix
		ext = "html"
		folder = "review-reports"
	}

	key := fmt.Sprintf("%s/%s/%d_%s.%s", folder, userID, time.Now().Unix(), uuid.NewString()[:8], ext)

	uploader := manager.NewUploader(f.client)

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return key, nil
}

// Retrieve fetches the stored document bytes by key.
func (f *S3FileStore) Retrieve(ctx context.Context, ref string) ([]byte, error) {
	ctxGet, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := f.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// DownloadURL returns a presigned URL for the key, valid for ttl.
func (f *S3FileStore) DownloadURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	presigner := s3.NewPresignClient(f.client)

	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign url: %w", err)
	}

	return req.URL, nil
}
