package cloudwriter

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used for reading and writing objects
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ClientProvider creates the S3 client on first use so that runs which never
// touch S3 do not need AWS credentials.
type S3ClientProvider struct {
	region string
	once   sync.Once
	client S3API
	err    error
}

func NewS3ClientProvider(region string) *S3ClientProvider {
	return &S3ClientProvider{region: region}
}

// NewStaticS3ClientProvider wraps an existing client
func NewStaticS3ClientProvider(client S3API) *S3ClientProvider {
	p := &S3ClientProvider{client: client}
	p.once.Do(func() {})
	return p
}

func (p *S3ClientProvider) Client(ctx context.Context) (S3API, error) {
	p.once.Do(func() {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
		if err != nil {
			p.err = fmt.Errorf("unable to load SDK config: %w", err)
			return
		}
		p.client = s3.NewFromConfig(cfg)
	})
	return p.client, p.err
}

type S3Writer struct {
	ctx        context.Context
	client     S3API
	bucket     string
	objectPath string
	buffer     bytes.Buffer
}

type S3WriterFactory struct {
	ctx      context.Context
	provider *S3ClientProvider
}

func NewS3WriterFactory(ctx context.Context, provider *S3ClientProvider) *S3WriterFactory {
	return &S3WriterFactory{ctx: ctx, provider: provider}
}

func (f *S3WriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	client, err := f.provider.Client(f.ctx)
	if err != nil {
		return nil, err
	}
	return &S3Writer{
		ctx:        f.ctx,
		client:     client,
		bucket:     bucket,
		objectPath: objectPath,
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	return w.buffer.Write(data)
}

func (w *S3Writer) Close() error {
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.objectPath),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("unable to upload file to S3: %w", err)
	}
	return nil
}
