package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/deltahost/portal-service/internal/config"
)

// MaxUploadBytes caps any uploaded image (payment screenshots, ticket
// attachments, QR codes) at 5 MB. Enforced here so no caller can skip it.
const MaxUploadBytes = 5 * 1024 * 1024

// Upload folder keys
const (
	FolderScreenshots = "payment-screenshots"
	FolderTickets     = "ticket-attachments"
	FolderQRCodes     = "qr-codes"
)

var ErrTooLarge = fmt.Errorf("file exceeds %d bytes", MaxUploadBytes)
var ErrNotImage = fmt.Errorf("file is not a supported image type")

type Uploader struct {
	cfg    config.S3Config
	client *s3.Client
}

func NewUploader(cfg config.S3Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 credentials are required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("s3 public base url is required")
	}

	options := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &Uploader{
		cfg:    cfg,
		client: s3.New(options),
	}, nil
}

// Upload stores data under {folder}/{unix-nano}{ext} and returns the public URL
func (u *Uploader) Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no data to upload")
	}
	if len(data) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	ext, ok := extensionFromContentType(contentType)
	if !ok {
		return "", ErrNotImage
	}

	key := path.Join(strings.Trim(folder, "/"), fmt.Sprintf("%d%s", time.Now().UnixNano(), ext))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key, nil
}

func extensionFromContentType(contentType string) (string, bool) {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png", true
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	case "image/webp":
		return ".webp", true
	case "image/gif":
		return ".gif", true
	default:
		return "", false
	}
}
