package fetcher

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		header  http.Header
		body    string
		blocked bool
		kind    string
	}{
		{"normal page", 200, http.Header{}, "<html><body>Welcome to Acme</body></html>", false, ""},
		{"cloudflare header", 403, http.Header{"Cf-Ray": {"abc"}}, "denied", true, BlockCloudflare},
		{"cloudflare server", 503, http.Header{"Server": {"cloudflare"}}, "", true, BlockCloudflare},
		{"challenge marker", 200, http.Header{}, "Checking your browser...", true, BlockCloudflare},
		{"recaptcha", 200, http.Header{}, `<div class="g-recaptcha"></div>`, true, BlockCaptcha},
		{"js shell", 200, http.Header{}, "<noscript>Please enable JavaScript</noscript>", true, BlockJSShell},
		{"meta refresh", 200, http.Header{}, `<meta http-equiv="refresh" content="0;url=/x">`, true, BlockJSShell},
		{"large noscript page", 200, http.Header{}, "<noscript>enable javascript</noscript>" + strings.Repeat("x", 3000), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Header: tt.header}
			blocked, kind := detectBlock(resp, []byte(tt.body))
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
