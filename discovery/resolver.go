// Package discovery recovers the site's current search endpoint and access
// key from its front-end bundle.
package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"howlongtobeat/models"
	"howlongtobeat/transport"
)

// Resolver runs discovery against the live site
type Resolver struct {
	baseURL string
	fetcher Fetcher
	logger  *zap.Logger
}

// NewResolver creates a resolver for the site at baseURL
func NewResolver(baseURL string, fetcher Fetcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		logger:  logger.Named("discovery"),
	}
}

// Discover fetches the host page and its application bundle and scans them
// for the search endpoint. Every failure is a *Error.
func (r *Resolver) Discover(ctx context.Context) (models.APIKeys, error) {
	pageURL := r.baseURL + "/"
	r.logger.Debug("fetching host page", zap.String("url", pageURL))

	page, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return models.APIKeys{}, newError(ErrPageFetchFailed, pageURL, err)
	}

	bundlePath, err := FindBundlePath(page)
	if err != nil {
		r.logger.Debug("bundle path not found",
			zap.Int("page_bytes", len(page)),
			zap.String("page", transport.Truncate(page, transport.DebugBodyLimit)))
		return models.APIKeys{}, err
	}

	bundleURL, err := r.resolveURL(bundlePath)
	if err != nil {
		return models.APIKeys{}, newError(ErrBundlePathNotFound, bundlePath, err)
	}
	r.logger.Debug("fetching application bundle", zap.String("url", bundleURL))

	bundle, err := r.fetcher.Fetch(ctx, bundleURL)
	if err != nil {
		return models.APIKeys{}, newError(ErrBundleFetchFailed, bundleURL, err)
	}

	keys, err := ParseBundle(bundle)
	if err != nil {
		r.logger.Debug("bundle scan failed", zap.Int("bundle_bytes", len(bundle)), zap.Error(err))
		return models.APIKeys{}, err
	}

	r.logger.Debug("endpoint discovered",
		zap.String("sub_page", keys.SubPage),
		zap.String("search_key", keys.SearchKey))
	return keys, nil
}

// resolveURL turns a bundle path from the page into an absolute URL
func (r *Resolver) resolveURL(path string) (string, error) {
	base, err := url.Parse(r.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid bundle path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
