package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"howlongtobeat/models"
)

// gatedSearcher blocks each query until its gate is released
type gatedSearcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	games map[string][]models.Game
	errs  map[string]error
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{
		gates: map[string]chan struct{}{},
		games: map[string][]models.Game{},
		errs:  map[string]error{},
	}
}

func (g *gatedSearcher) gate(query string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[query]
	if !ok {
		ch = make(chan struct{})
		g.gates[query] = ch
	}
	return ch
}

func (g *gatedSearcher) Search(ctx context.Context, query string) ([]models.Game, error) {
	select {
	case <-g.gate(query):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.games[query], g.errs[query]
}

func TestOutcome_State(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    State
	}{
		{name: "pending", outcome: Pending("zelda", 1), want: StateLoading},
		{name: "results", outcome: Outcome{Done: true, Games: []models.Game{{GameID: 1}}}, want: StateResults},
		{name: "empty", outcome: Outcome{Done: true, Games: []models.Game{}}, want: StateEmpty},
		{name: "error", outcome: Outcome{Done: true, Err: errors.New("boom")}, want: StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.State())
		})
	}

	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestManager_SupersededResultsAreStale(t *testing.T) {
	s := newGatedSearcher()
	s.games["zel"] = []models.Game{{GameID: 1, GameName: "Zelda Classic"}}
	s.games["zelda"] = []models.Game{{GameID: 2, GameName: "Zelda"}}
	m := NewManager(s)

	first, firstCh := m.Start(context.Background(), "zel")
	assert.Equal(t, StateLoading, first.State())
	assert.True(t, m.IsCurrent(first))

	second, secondCh := m.Start(context.Background(), "zelda")
	assert.False(t, m.IsCurrent(first))
	assert.True(t, m.IsCurrent(second))

	// the newer query finishes first, the older one arrives late
	close(s.gate("zelda"))
	latest := <-secondCh
	close(s.gate("zel"))
	late := <-firstCh

	assert.True(t, m.IsCurrent(latest))
	assert.Equal(t, StateResults, latest.State())
	assert.Equal(t, "Zelda", latest.Games[0].GameName)

	assert.False(t, m.IsCurrent(late))
	assert.Equal(t, "zel", late.Query)
	assert.True(t, late.Done, "superseded searches still run to completion")
}

func TestManager_Run(t *testing.T) {
	s := newGatedSearcher()
	s.errs["broken"] = &Error{Kind: KindHTTP, Status: 500}
	s.games["nothing"] = []models.Game{}
	close(s.gate("broken"))
	close(s.gate("nothing"))
	m := NewManager(s)

	o := m.Run(context.Background(), "broken")
	assert.Equal(t, StateError, o.State())
	assert.True(t, IsKind(o.Err, KindHTTP))

	o = m.Run(context.Background(), "nothing")
	assert.Equal(t, StateEmpty, o.State())
	assert.True(t, m.IsCurrent(o))
}

func TestManager_StartChannelCloses(t *testing.T) {
	s := newGatedSearcher()
	m := NewManager(s)
	ctx, cancel := context.WithCancel(context.Background())

	_, ch := m.Start(ctx, "never")
	cancel()

	o, ok := <-ch
	require.True(t, ok)
	assert.ErrorIs(t, o.Err, context.Canceled)
	_, ok = <-ch
	assert.False(t, ok)
}
