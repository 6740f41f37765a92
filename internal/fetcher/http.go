package fetcher

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/resilience"
)

// DefaultUserAgent is a desktop browser string; many company sites refuse
// obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 2 << 20

// AboutPaths are the secondary pages checked by FetchAbout, in order.
var AboutPaths = []string{"/about", "/about-us", "/company", "/who-we-are"}

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	AboutTimeout time.Duration
	MaxAttempts  int
	Backoff      time.Duration
}

// HTTPFetcher implements Fetcher with net/http and a fixed-spacing retry.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
	retry  resilience.RetryConfig
}

// NewHTTPFetcher creates an HTTPFetcher, filling zero options with the
// defaults: 10s page timeout, 5s about timeout, 3 attempts 1s apart.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.AboutTimeout <= 0 {
		opts.AboutTimeout = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}

	retry := resilience.FixedRetryConfig(opts.MaxAttempts, opts.Backoff)
	// A per-attempt timeout is a failed attempt like any other. Caller
	// cancellation still stops the loop inside DoVal.
	retry.ShouldRetry = func(error) bool { return true }
	retry.OnRetry = resilience.RetryLogger("fetcher", "fetch")

	return &HTTPFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:  opts,
		retry: retry,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*model.RawPage, error) {
	attempts := 0
	page, err := resilience.DoVal(ctx, f.retry, func(ctx context.Context) (*model.RawPage, error) {
		attempts++
		return f.get(ctx, url, f.opts.Timeout)
	})
	if err != nil {
		zap.L().Warn("fetch failed",
			zap.String("url", url),
			zap.Int("attempts", attempts),
			zap.Bool("transient", resilience.IsTransient(err)),
			zap.Error(err),
		)
		return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
	}

	zap.L().Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", page.StatusCode),
		zap.Int("bytes", len(page.HTML)),
		zap.Bool("blocked", page.Blocked),
	)
	return page, nil
}

// FetchAbout implements Fetcher. Candidate pages hang off the site root, so
// any path, query or fragment on baseURL is dropped.
func (f *HTTPFetcher) FetchAbout(ctx context.Context, baseURL string) (*model.RawPage, error) {
	base, err := siteRoot(baseURL)
	if err != nil {
		return nil, err
	}
	for _, path := range AboutPaths {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "fetch about")
		}
		page, err := f.get(ctx, base+path, f.opts.AboutTimeout)
		if err != nil {
			zap.L().Debug("about page unavailable", zap.String("url", base+path), zap.Error(err))
			continue
		}
		if page.StatusCode == http.StatusOK {
			return page, nil
		}
	}
	return nil, nil
}

// siteRoot reduces rawURL to scheme://host.
func siteRoot(rawURL string) (string, error) {
	u, err := neturl.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", eris.Wrapf(err, "parse base url %q", rawURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", eris.Errorf("base url %q has no scheme or host", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// get performs one GET bounded by timeout. Any non-2xx reply is an error.
func (f *HTTPFetcher) get(ctx context.Context, url string, timeout time.Duration) (*model.RawPage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "get %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrapf(err, "read body of %s", url)
	}

	blocked, kind := detectBlock(resp, body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode, BlockType: kind}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(se, resp.StatusCode)
		}
		return nil, se
	}

	return &model.RawPage{
		URL:        url,
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now().UTC(),
		Blocked:    blocked,
		BlockType:  kind,
	}, nil
}
