package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"commute/internal/cloudwriter"
	"commute/internal/logging"
)

// S3Fetcher reads sources from s3://bucket/key locations
type S3Fetcher struct {
	provider *cloudwriter.S3ClientProvider
}

func NewS3Fetcher(provider *cloudwriter.S3ClientProvider) *S3Fetcher {
	return &S3Fetcher{provider: provider}
}

func (f *S3Fetcher) Scheme() string {
	return "s3"
}

func (f *S3Fetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := cloudwriter.ParseS3URL(location)
	if err != nil {
		return nil, err
	}
	client, err := f.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	logging.Infof("Fetching s3 object bucket=%s key=%s", bucket, key)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}
