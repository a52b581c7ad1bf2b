// internal/parser/parser.go
package parser

import (
	"context"
	"fmt"
	"io"
)

// Fetcher defines the interface for the different source locations
type Fetcher interface {
	// Scheme returns the URL scheme handled by the fetcher (e.g., "https", "s3")
	Scheme() string

	// Fetch opens the resource at the given location. The caller closes the reader.
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// LoadError represents a loading error with a specific stage
type LoadError struct {
	Stage  string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error at %s stage for %s: %v", e.Stage, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError
func NewLoadError(stage, source string, err error) *LoadError {
	return &LoadError{
		Stage:  stage,
		Source: source,
		Err:    err,
	}
}
