package cloudwriter

import (
	"fmt"
	"net/url"
	"strings"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// ParseS3URL splits s3://bucket/key into bucket and key
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid s3 url %q: scheme must be s3", raw)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: missing bucket", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
