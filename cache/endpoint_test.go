package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"howlongtobeat/models"
)

var testKeys = models.APIKeys{SubPage: "search", SearchKey: "abcd"}

func TestEndpoint_SetGetClear(t *testing.T) {
	e := NewEndpoint()

	_, ok := e.Get()
	assert.False(t, ok)
	assert.Equal(t, StateUnresolved, e.State())

	e.Set(testKeys)
	keys, ok := e.Get()
	assert.True(t, ok)
	assert.Equal(t, testKeys, keys)
	assert.Equal(t, StateResolved, e.State())

	e.Clear()
	keys, ok = e.Get()
	assert.False(t, ok)
	assert.True(t, keys.IsZero())
	assert.Equal(t, StateUnresolved, e.State())
}

func TestEndpoint_ResolveMissThenHit(t *testing.T) {
	e := NewEndpoint()
	calls := 0
	resolve := func(context.Context) (models.APIKeys, error) {
		calls++
		return testKeys, nil
	}

	keys, hit, err := e.Resolve(context.Background(), resolve)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, testKeys, keys)

	keys, hit, err = e.Resolve(context.Background(), resolve)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, testKeys, keys)
	assert.Equal(t, 1, calls)
}

func TestEndpoint_ResolveErrorLeavesCacheEmpty(t *testing.T) {
	e := NewEndpoint()
	boom := errors.New("boom")

	_, _, err := e.Resolve(context.Background(), func(context.Context) (models.APIKeys, error) {
		return models.APIKeys{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateUnresolved, e.State())
}

// concurrentMisses starts n resolvers that all miss the cache at once
func concurrentMisses(t *testing.T, e *Endpoint, n int) int32 {
	t.Helper()
	var calls atomic.Int32
	release := make(chan struct{})
	resolve := func(context.Context) (models.APIKeys, error) {
		calls.Add(1)
		<-release
		return testKeys, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys, _, err := e.Resolve(context.Background(), resolve)
			assert.NoError(t, err)
			assert.Equal(t, testKeys, keys)
		}()
	}

	// let every goroutine reach the resolver before releasing it
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	return calls.Load()
}

func TestEndpoint_ConcurrentMissesNotCoalesced(t *testing.T) {
	e := NewEndpoint()
	calls := concurrentMisses(t, e, 5)

	assert.Equal(t, int32(5), calls)
	assert.Equal(t, StateResolved, e.State())
}

func TestEndpoint_ConcurrentMissesSingleFlight(t *testing.T) {
	e := NewEndpoint(WithSingleFlight())
	calls := concurrentMisses(t, e, 5)

	assert.Equal(t, int32(1), calls)
	assert.Equal(t, StateResolved, e.State())
}

// concurrentRediscoveries starts n rediscoveries at once and returns how many
// reached the resolver
func concurrentRediscoveries(t *testing.T, e *Endpoint, n int) int32 {
	t.Helper()
	var calls atomic.Int32
	release := make(chan struct{})
	resolve := func(context.Context) (models.APIKeys, error) {
		calls.Add(1)
		<-release
		return testKeys, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys, err := e.Rediscover(context.Background(), resolve)
			assert.NoError(t, err)
			assert.Equal(t, testKeys, keys)
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	return calls.Load()
}

func TestEndpoint_RediscoverSingleFlight(t *testing.T) {
	e := NewEndpoint(WithSingleFlight())
	calls := concurrentRediscoveries(t, e, 5)

	assert.Equal(t, int32(1), calls)
	assert.Equal(t, StateUnresolved, e.State(), "rediscovered keys are stored by the caller")
}

func TestEndpoint_RediscoverNotCoalesced(t *testing.T) {
	e := NewEndpoint()
	calls := concurrentRediscoveries(t, e, 5)

	assert.Equal(t, int32(5), calls)
	assert.Equal(t, StateUnresolved, e.State())
}

func TestEndpoint_RediscoverError(t *testing.T) {
	e := NewEndpoint(WithSingleFlight())
	e.Set(testKeys)
	boom := errors.New("boom")

	keys, err := e.Rediscover(context.Background(), func(context.Context) (models.APIKeys, error) {
		return models.APIKeys{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, keys.IsZero())

	cached, ok := e.Get()
	assert.True(t, ok)
	assert.Equal(t, testKeys, cached)
}
