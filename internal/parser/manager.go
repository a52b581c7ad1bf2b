package parser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"commute/internal/logging"
)

// FetcherManager picks a fetcher by the scheme of the source location
type FetcherManager struct {
	fetchers map[string]Fetcher
}

// NewFetcherManager creates an empty manager
func NewFetcherManager() *FetcherManager {
	return &FetcherManager{
		fetchers: make(map[string]Fetcher),
	}
}

// RegisterFetcher adds a new fetcher to the manager
func (m *FetcherManager) RegisterFetcher(f Fetcher) {
	m.fetchers[f.Scheme()] = f
}

// GetFetcher retrieves a fetcher by scheme
func (m *FetcherManager) GetFetcher(scheme string) (Fetcher, error) {
	f, ok := m.fetchers[scheme]
	if !ok {
		return nil, fmt.Errorf("no fetcher found for scheme: %s", scheme)
	}
	return f, nil
}

// Open resolves the location's scheme and opens it with the matching fetcher.
// Locations without a scheme are treated as local files.
func (m *FetcherManager) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	scheme := SchemeOf(location)
	f, err := m.GetFetcher(scheme)
	if err != nil {
		return nil, err
	}
	logging.Debugf("Opening %s with %s fetcher", location, scheme)
	return f.Fetch(ctx, location)
}

// SchemeOf returns the lower-cased URL scheme, or "file" when there is none
func SchemeOf(location string) string {
	u, err := url.Parse(location)
	// single letter schemes are Windows drive letters
	if err != nil || len(u.Scheme) <= 1 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}
