package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// resultTTL is how long the presigned retrieval URL stays valid.
const resultTTL = 7 * 24 * time.Hour

// S3Publisher uploads documents to an S3 bucket and hands out presigned
// GET URLs, so the bucket can stay private.
type S3Publisher struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Publisher creates a publisher for the given bucket using the
// default AWS credential chain.
func NewS3Publisher(ctx context.Context, region, bucket string) (*S3Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3Publisher{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

// Publish uploads the document as {jobID}/index.html and returns a
// presigned URL valid for seven days.
func (p *S3Publisher) Publish(ctx context.Context, jobID string, document []byte) (string, error) {
	key := jobID + "/index.html"

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document),
		ContentType: aws.String("text/html"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %v", ErrUploadFailed, err)
	}

	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(resultTTL))
	if err != nil {
		return "", fmt.Errorf("%w: presign: %v", ErrUploadFailed, err)
	}

	slog.Info("published document", "bucket", p.bucket, "key", key, "bytes", len(document))
	return req.URL, nil
}
