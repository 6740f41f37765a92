package fetcher

import (
	"bytes"
	"net/http"
)

// Block kinds reported on model.RawPage.BlockType.
const (
	BlockCloudflare = "cloudflare"
	BlockCaptcha    = "captcha"
	BlockJSShell    = "js_shell"
)

// jsShellMaxBytes bounds how small a page must be to count as a JS-only shell.
const jsShellMaxBytes = 2000

// detectBlock reports whether a reply looks like an anti-bot interstitial
// rather than the company's real page.
func detectBlock(resp *http.Response, body []byte) (bool, string) {
	if resp != nil && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable) {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("Server") == "cloudflare" {
			return true, BlockCloudflare
		}
	}

	lower := bytes.ToLower(body)

	if bytes.Contains(lower, []byte("checking your browser")) ||
		bytes.Contains(lower, []byte("cf-browser-verification")) {
		return true, BlockCloudflare
	}

	if bytes.Contains(lower, []byte("g-recaptcha")) ||
		bytes.Contains(lower, []byte("h-captcha")) ||
		bytes.Contains(lower, []byte("captcha-container")) {
		return true, BlockCaptcha
	}

	if len(body) < jsShellMaxBytes {
		if bytes.Contains(lower, []byte("<noscript")) && bytes.Contains(lower, []byte("enable javascript")) {
			return true, BlockJSShell
		}
		if bytes.Contains(lower, []byte(`http-equiv="refresh"`)) {
			return true, BlockJSShell
		}
	}

	return false, ""
}
