// Package cache holds the last discovered search endpoint.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"howlongtobeat/models"
)

// State describes whether an endpoint is currently cached
type State string

const (
	StateUnresolved State = "unresolved"
	StateResolved   State = "resolved"
)

// ResolveFunc discovers a fresh endpoint
type ResolveFunc func(ctx context.Context) (models.APIKeys, error)

// Endpoint is a mutex-guarded cell holding at most one APIKeys value. The
// lock covers only the in-memory read or write, never network I/O.
type Endpoint struct {
	mu   sync.Mutex
	keys models.APIKeys
	set  bool

	group *singleflight.Group
}

// Option configures an Endpoint
type Option func(*Endpoint)

// WithSingleFlight makes concurrent misses share one discovery call. Without
// it every miss resolves on its own and the last writer wins.
func WithSingleFlight() Option {
	return func(e *Endpoint) {
		e.group = &singleflight.Group{}
	}
}

// NewEndpoint creates an empty endpoint cache
func NewEndpoint(opts ...Option) *Endpoint {
	e := &Endpoint{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Get returns a copy of the cached keys
func (e *Endpoint) Get() (models.APIKeys, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.keys, e.set
}

// Set replaces the cached keys
func (e *Endpoint) Set(keys models.APIKeys) {
	e.mu.Lock()
	e.keys = keys
	e.set = true
	e.mu.Unlock()
}

// Clear drops the cached keys
func (e *Endpoint) Clear() {
	e.mu.Lock()
	e.keys = models.APIKeys{}
	e.set = false
	e.mu.Unlock()
}

// State reports whether keys are cached
func (e *Endpoint) State() State {
	if _, ok := e.Get(); ok {
		return StateResolved
	}
	return StateUnresolved
}

// Resolve returns the cached keys, or runs resolve on a miss and caches its
// result. hit reports whether the value came from the cache.
func (e *Endpoint) Resolve(ctx context.Context, resolve ResolveFunc) (keys models.APIKeys, hit bool, err error) {
	if keys, ok := e.Get(); ok {
		return keys, true, nil
	}

	if e.group == nil {
		keys, err = resolve(ctx)
		if err != nil {
			return models.APIKeys{}, false, err
		}
		e.Set(keys)
		return keys, false, nil
	}

	// Shared calls run under the context of the caller that started them.
	v, err, _ := e.group.Do("endpoint", func() (any, error) {
		keys, err := resolve(ctx)
		if err != nil {
			return models.APIKeys{}, err
		}
		e.Set(keys)
		return keys, nil
	})
	if err != nil {
		return models.APIKeys{}, false, err
	}
	return v.(models.APIKeys), false, nil
}

// Rediscover runs resolve without consulting or filling the cache; the caller
// stores the keys once they have proven to work. With single-flight enabled,
// concurrent rediscoveries share one call.
func (e *Endpoint) Rediscover(ctx context.Context, resolve ResolveFunc) (models.APIKeys, error) {
	if e.group == nil {
		return resolve(ctx)
	}

	v, err, _ := e.group.Do("rediscover", func() (any, error) {
		return resolve(ctx)
	})
	if err != nil {
		return models.APIKeys{}, err
	}
	return v.(models.APIKeys), nil
}
