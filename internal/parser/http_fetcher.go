package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"commute/internal/logging"
)

// HTTPFetcher downloads sources over http and https
type HTTPFetcher struct {
	scheme       string
	client       *http.Client
	showProgress bool
}

// NewHTTPFetcher creates a fetcher for the given scheme ("http" or "https")
func NewHTTPFetcher(scheme string, timeout time.Duration, showProgress bool) *HTTPFetcher {
	return &HTTPFetcher{
		scheme: scheme,
		client: &http.Client{
			Timeout: timeout,
		},
		showProgress: showProgress,
	}
}

// Scheme returns the URL scheme handled by the fetcher
func (f *HTTPFetcher) Scheme() string {
	return f.scheme
}

// Fetch issues a GET request and returns the response body
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv,text/plain,*/*")

	logging.Infof("Downloading %s", location)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	logging.Debugf("Received response with status code: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if !f.showProgress {
		return resp.Body, nil
	}
	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
	return &progressReader{Reader: io.TeeReader(resp.Body, bar), body: resp.Body, bar: bar}, nil
}

type progressReader struct {
	io.Reader
	body io.Closer
	bar  *progressbar.ProgressBar
}

func (r *progressReader) Close() error {
	_ = r.bar.Finish()
	return r.body.Close()
}
