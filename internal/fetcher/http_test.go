package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore-cli/internal/resilience"
)

func fastFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		Timeout:      2 * time.Second,
		AboutTimeout: time.Second,
		Backoff:      20 * time.Millisecond,
	})
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, DefaultUserAgent, f.opts.UserAgent)
	assert.Equal(t, 10*time.Second, f.opts.Timeout)
	assert.Equal(t, 5*time.Second, f.opts.AboutTimeout)
	assert.Equal(t, 3, f.opts.MaxAttempts)
	assert.Equal(t, time.Second, f.opts.Backoff)
	assert.InDelta(t, 1.0, f.retry.Multiplier, 1e-9)
	assert.Zero(t, f.retry.JitterFraction)
}

func TestFetch_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><title>Acme</title></html>")) //nolint:errcheck
	}))
	defer srv.Close()

	page, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, page.URL)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.HTML, "<title>Acme</title>")
	assert.False(t, page.FetchedAt.IsZero())
	assert.False(t, page.Blocked)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestFetch_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer srv.Close()

	page, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", page.HTML)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_NotFoundExhaustsAttempts(t *testing.T) {
	var mu sync.Mutex
	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Attempts)
	assert.Equal(t, srv.URL, fe.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), 20*time.Millisecond)
	}
}

func TestFetch_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := fastFetcher().Fetch(context.Background(), url)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Attempts)
	assert.Contains(t, fe.Error(), "failed after 3 attempts")
}

func TestFetch_TimeoutIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		w.Write([]byte("late but fine")) //nolint:errcheck
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 50 * time.Millisecond, Backoff: 10 * time.Millisecond})
	page, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "late but fine", page.HTML)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestFetch_CanceledContextStops(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastFetcher().Fetch(ctx, srv.URL)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Attempts)
}

func TestFetch_BodyCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("a", maxBodyBytes+1024))) //nolint:errcheck
	}))
	defer srv.Close()

	page, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, page.HTML, maxBodyBytes)
}

func TestFetch_FlagsChallengePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>Checking your browser before accessing</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	page, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, page.Blocked)
	assert.Equal(t, BlockCloudflare, page.BlockType)
}

func TestFetchAbout_FirstOKWins(t *testing.T) {
	var hits []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/about-us":
			w.Write([]byte("about acme")) //nolint:errcheck
		case "/company":
			w.Write([]byte("company page")) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	page, err := fastFetcher().FetchAbout(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "about acme", page.HTML)
	assert.Equal(t, srv.URL+"/about-us", page.URL)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/about", "/about-us"}, hits)
}

func TestFetchAbout_NoneFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	page, err := fastFetcher().FetchAbout(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Nil(t, page)
	// Each path tried exactly once, no retries.
	assert.Equal(t, int32(len(AboutPaths)), calls.Load())
}

func TestFetch_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestFetch_CloudflareForbiddenReportsBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Server", "cloudflare")
		w.Header().Set("cf-ray", "8a1b2c3d4e5f-IAD")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html>Attention Required!</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := fastFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked: "+BlockCloudflare)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, BlockCloudflare, se.BlockType)
}

func TestFetch_PlainForbiddenHasNoBlockType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := fastFetcher().Fetch(context.Background(), srv.URL)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, se.BlockType)
	assert.NotContains(t, err.Error(), "blocked")
}

func TestFetchAbout_UsesSiteRoot(t *testing.T) {
	var hits []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.RequestURI())
		mu.Unlock()
		if r.URL.Path == "/about" {
			w.Write([]byte("about acme")) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	page, err := fastFetcher().FetchAbout(context.Background(), srv.URL+"/en?x=1#team")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, srv.URL+"/about", page.URL)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/about"}, hits)
}

func TestSiteRoot(t *testing.T) {
	got, err := siteRoot("https://acme.com/en?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com", got)

	got, err = siteRoot("http://acme.com:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://acme.com:8080", got)

	_, err = siteRoot("acme.com/about")
	assert.Error(t, err)
}
