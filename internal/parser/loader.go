package parser

import (
	"context"
	"fmt"
	"time"

	"commute/internal/cloudwriter"
	"commute/internal/logging"
	"commute/internal/models"
)

// NewDefaultManager registers the http, https, file and s3 fetchers
func NewDefaultManager(cfg *models.Config, s3Provider *cloudwriter.S3ClientProvider) *FetcherManager {
	m := NewFetcherManager()
	m.RegisterFetcher(NewHTTPFetcher("http", cfg.FetchTimeout, cfg.ShowProgress))
	m.RegisterFetcher(NewHTTPFetcher("https", cfg.FetchTimeout, cfg.ShowProgress))
	m.RegisterFetcher(&FileFetcher{})
	m.RegisterFetcher(NewS3Fetcher(s3Provider))
	return m
}

// LoadTables fetches and parses both tables. Any failure aborts the load; there is
// no partial result.
func LoadTables(ctx context.Context, m *FetcherManager, stackedURL, wideURL string) (*models.Tables, error) {
	defer logging.TimeTrack(time.Now(), "LoadTables")

	stacked, err := loadStacked(ctx, m, stackedURL)
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded stacked table: %d rows", len(stacked))

	wide, columns, err := loadWide(ctx, m, wideURL)
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded wide table: %d rows, columns %v", len(wide), columns)

	return &models.Tables{
		Stacked:     stacked,
		Wide:        wide,
		WideColumns: columns,
		StackedURL:  stackedURL,
		WideURL:     wideURL,
		LoadedAt:    time.Now(),
	}, nil
}

func loadStacked(ctx context.Context, m *FetcherManager, location string) ([]models.CommuteByTypeRow, error) {
	rc, err := m.Open(ctx, location)
	if err != nil {
		return nil, NewLoadError("fetch", location, err)
	}
	defer rc.Close()

	rows, err := ParseStacked(rc)
	if err != nil {
		return nil, withSource(err, location)
	}
	return rows, nil
}

func loadWide(ctx context.Context, m *FetcherManager, location string) ([]models.CommuteByStateRow, []string, error) {
	rc, err := m.Open(ctx, location)
	if err != nil {
		return nil, nil, NewLoadError("fetch", location, err)
	}
	defer rc.Close()

	rows, columns, err := ParseWide(rc)
	if err != nil {
		return nil, nil, withSource(err, location)
	}
	return rows, columns, nil
}

func withSource(err error, location string) error {
	if le, ok := err.(*LoadError); ok {
		return NewLoadError(le.Stage, location, le.Err)
	}
	return fmt.Errorf("%s: %w", location, err)
}
