package fetcher

import (
	"context"
	"fmt"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// Fetcher retrieves company web pages.
type Fetcher interface {
	// Fetch downloads the page at url, retrying on failure.
	Fetch(ctx context.Context, url string) (*model.RawPage, error)

	// FetchAbout tries the well-known "about" paths under the site root of baseURL
	// once each and returns the first that answers 200. It returns nil, nil when none do.
	FetchAbout(ctx context.Context, baseURL string) (*model.RawPage, error)
}

// FetchError is returned when every attempt to fetch a URL failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError records a non-2xx reply. BlockType is set when the reply was
// an anti-bot interstitial such as a Cloudflare 403.
type StatusError struct {
	StatusCode int
	BlockType  string
}

func (e *StatusError) Error() string {
	if e.BlockType != "" {
		return fmt.Sprintf("unexpected status %d (blocked: %s)", e.StatusCode, e.BlockType)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}
