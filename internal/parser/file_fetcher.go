package parser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// FileFetcher opens sources from the local filesystem
type FileFetcher struct{}

func (f *FileFetcher) Scheme() string {
	return "file"
}

func (f *FileFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file url: %w", err)
		}
		path = u.Path
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
