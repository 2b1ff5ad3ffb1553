// Package transport holds the HTTP plumbing shared by discovery and search.
package transport

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ErrorBodyLimit caps response bodies quoted in error values.
	ErrorBodyLimit = 200
	// DebugBodyLimit caps response bodies written to diagnostic logs.
	DebugBodyLimit = 500
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// The client is stateless and safe to share between concurrent calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// SetBrowserHeaders makes a request look like it came from the site's own
// front-end. The search endpoint rejects calls without Referer and Origin.
func SetBrowserHeaders(req *http.Request, baseURL, userAgent string) {
	base := strings.TrimRight(baseURL, "/")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", base+"/")
	req.Header.Set("Origin", base)
}

// Truncate shortens s to at most limit bytes without splitting a UTF-8
// sequence.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
