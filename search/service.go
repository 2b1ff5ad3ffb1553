// Package search executes game searches against the site's discovered
// endpoint.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"howlongtobeat/cache"
	"howlongtobeat/discovery"
	"howlongtobeat/models"
	"howlongtobeat/transport"
)

// maxResponseBytes bounds how much of a search response is read
const maxResponseBytes = 8 << 20

// Resolver discovers the current search endpoint
type Resolver interface {
	Discover(ctx context.Context) (models.APIKeys, error)
}

// Service handles game searching. It is safe for concurrent use; the
// endpoint cache is the only shared mutable state.
type Service struct {
	baseURL       string
	apiRoot       string
	userAgent     string
	searchTimeout time.Duration

	httpClient *http.Client
	resolver   Resolver
	endpoints  *cache.Endpoint
	logger     *zap.Logger
}

// Option overrides a collaborator of the Service
type Option func(*Service)

// WithHTTPClient sets the client used for search calls
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

// WithResolver replaces the discovery implementation
func WithResolver(r Resolver) Option {
	return func(s *Service) { s.resolver = r }
}

// WithEndpointCache shares an existing endpoint cache
func WithEndpointCache(c *cache.Endpoint) Option {
	return func(s *Service) { s.endpoints = c }
}

// NewService creates a new search service from settings. Unless overridden,
// discovery runs over the same HTTP client as the searches.
func NewService(settings *models.Settings, logger *zap.Logger, opts ...Option) *Service {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		baseURL:       strings.TrimRight(settings.BaseURL, "/"),
		apiRoot:       strings.Trim(settings.APIRoot, "/"),
		userAgent:     settings.UserAgent,
		searchTimeout: settings.SearchTimeout,
		logger:        logger.Named("search"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		s.httpClient = transport.NewHTTPClient(settings.RequestTimeout)
	}
	if s.resolver == nil {
		fetcher := discovery.NewCollyFetcher(s.httpClient, s.userAgent, s.baseURL+"/")
		s.resolver = discovery.NewResolver(s.baseURL, fetcher, logger)
	}
	if s.endpoints == nil {
		var cacheOpts []cache.Option
		if settings.CoalesceDiscovery {
			cacheOpts = append(cacheOpts, cache.WithSingleFlight())
		}
		s.endpoints = cache.NewEndpoint(cacheOpts...)
	}
	return s
}

// Endpoints exposes the endpoint cache
func (s *Service) Endpoints() *cache.Endpoint {
	return s.endpoints
}

// Search looks up games matching query, which is sent as given. An empty,
// non-nil slice means the site returned no matches. A 404 from a cached
// endpoint is taken as a sign of a redeploy: the cache is cleared and the
// call is retried once against a freshly discovered endpoint.
func (s *Service) Search(ctx context.Context, query string) ([]models.Game, error) {
	log := s.logger.With(
		zap.String("request_id", uuid.New().String()),
		zap.String("query", query),
	)

	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	keys, hit, err := s.endpoints.Resolve(ctx, s.resolver.Discover)
	if err != nil {
		log.Debug("endpoint discovery failed", zap.Error(err))
		return nil, &Error{Kind: KindDiscovery, Err: err}
	}
	log.Debug("endpoint ready",
		zap.Bool("cache_hit", hit),
		zap.String("sub_page", keys.SubPage))

	status, body, err := s.post(ctx, log, keys, query)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		log.Debug("endpoint returned 404, rediscovering")
		s.endpoints.Clear()

		keys, err = s.endpoints.Rediscover(ctx, s.resolver.Discover)
		if err != nil {
			log.Debug("rediscovery failed", zap.Error(err))
			return nil, &Error{Kind: KindDiscovery, Err: err}
		}

		status, body, err = s.post(ctx, log, keys, query)
		if err != nil {
			return nil, err
		}
		if !isSuccess(status) {
			return nil, httpError(status, body)
		}
		s.endpoints.Set(keys)
	} else if !isSuccess(status) {
		return nil, httpError(status, body)
	}

	return s.decode(log, body)
}

// post sends one search request and returns the status and body
func (s *Service) post(ctx context.Context, log *zap.Logger, keys models.APIKeys, query string) (int, []byte, error) {
	endpoint, err := url.JoinPath(s.baseURL, s.apiRoot, keys.SubPage, keys.SearchKey)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to build endpoint url: %w", err)}
	}

	payload, err := json.Marshal(models.NewSearchRequest(query))
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	transport.SetBrowserHeaders(req, s.baseURL, s.userAgent)

	log.Debug("sending search request", zap.String("url", endpoint))
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.Debug("search response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", transport.Truncate(string(body), transport.DebugBodyLimit)))
	return resp.StatusCode, body, nil
}

// decode turns a successful response body into games
func (s *Service) decode(log *zap.Logger, body []byte) ([]models.Game, error) {
	parsed := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !parsed.IsObject() {
		return nil, &Error{
			Kind: KindDecode,
			Body: transport.Truncate(string(body), transport.ErrorBodyLimit),
			Err:  errors.New("response is not a JSON object"),
		}
	}
	log.Debug("decoding search response",
		zap.Int64("count", parsed.Get("count").Int()),
		zap.Int64("results", parsed.Get("data.#").Int()))

	var resp models.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{
			Kind: KindDecode,
			Body: transport.Truncate(string(body), transport.ErrorBodyLimit),
			Err:  err,
		}
	}
	if resp.Data == nil {
		resp.Data = []models.Game{}
	}
	return resp.Data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

func httpError(status int, body []byte) *Error {
	return &Error{
		Kind:   KindHTTP,
		Status: status,
		Body:   transport.Truncate(string(body), transport.ErrorBodyLimit),
	}
}

// NormalizeQuery trims the query and collapses runs of whitespace. Front-ends
// apply it to user input before searching.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
