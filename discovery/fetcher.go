package discovery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"
)

// Fetcher retrieves a text document over HTTP
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// CollyFetcher fetches the host page and bundle with a colly collector
// sharing the client's http.Client.
type CollyFetcher struct {
	client    *http.Client
	userAgent string
	referer   string
}

var _ Fetcher = (*CollyFetcher)(nil)

// NewCollyFetcher creates a fetcher that presents itself as a browser
// visiting baseURL.
func NewCollyFetcher(client *http.Client, userAgent, referer string) *CollyFetcher {
	return &CollyFetcher{client: client, userAgent: userAgent, referer: referer}
}

// Fetch downloads url and returns its body. Non-2xx responses are errors.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	// colly refuses to revisit a URL, so each call gets its own collector
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
	)
	if f.client != nil {
		c.SetClient(f.client)
	}
	// error statuses reach OnResponse; the status check below decides
	c.ParseHTTPErrorResponse = true

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/javascript,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		if f.referer != "" {
			r.Headers.Set("Referer", f.referer)
		}
	})

	var body []byte
	var status int
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		if status != 0 {
			return "", fmt.Errorf("GET %s: status %d: %w", url, status, err)
		}
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	c.Wait()

	if status < 200 || status > 299 {
		return "", fmt.Errorf("GET %s: unexpected status %d", url, status)
	}
	return string(body), nil
}
