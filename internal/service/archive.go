package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/receipt-chef/backend/config"
)

// ObjectPutter is the subset of the S3 client used by the receipt archive
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ReceiptArchive stores uploaded receipt images in an S3 bucket
type S3ReceiptArchive struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

// NewS3ReceiptArchive creates an archive backed by the configured bucket.
// It returns nil when s3Config is nil, which disables archiving.
func NewS3ReceiptArchive(s3Config *config.S3Config) *S3ReceiptArchive {
	if s3Config == nil {
		return nil
	}
	return &S3ReceiptArchive{
		client: s3Config.Client,
		bucket: s3Config.BucketName,
		now:    time.Now,
	}
}

// ReceiptKey returns the object key for an upload received at t
func ReceiptKey(t time.Time, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("receipts/%s/%s%s", t.UTC().Format("2006/01/02"), uuid.New().String(), ext)
}

// Store uploads the image and returns its object key
func (a *S3ReceiptArchive) Store(ctx context.Context, filename string, image []byte) (string, error) {
	key := ReceiptKey(a.now(), filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(http.DetectContentType(image)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt to S3: %w", err)
	}
	return key, nil
}
