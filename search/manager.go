package search

import (
	"context"
	"sync/atomic"

	"howlongtobeat/models"
)

// Searcher is implemented by anything that can search for games. The
// presentation layer depends on this rather than on *Service.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Game, error)
}

var _ Searcher = (*Service)(nil)

// Manager is what interactive front-ends talk to. Searches may
// overlap; the manager numbers them so a caller can ignore late results
// from superseded queries. It never cancels an in-flight request.
type Manager struct {
	searcher Searcher
	latest   atomic.Uint64
}

// NewManager constructs a manager around a searcher
func NewManager(s Searcher) *Manager {
	return &Manager{searcher: s}
}

// Start issues a search in the background. The pending outcome is returned
// immediately; the finished one is delivered on the channel.
func (m *Manager) Start(ctx context.Context, query string) (Outcome, <-chan Outcome) {
	seq := m.latest.Add(1)
	out := make(chan Outcome, 1)
	go func() {
		out <- m.run(ctx, query, seq)
		close(out)
	}()
	return Pending(query, seq), out
}

// Run performs a search synchronously
func (m *Manager) Run(ctx context.Context, query string) Outcome {
	return m.run(ctx, query, m.latest.Add(1))
}

func (m *Manager) run(ctx context.Context, query string, seq uint64) Outcome {
	games, err := m.searcher.Search(ctx, query)
	return Outcome{Query: query, Seq: seq, Games: games, Err: err, Done: true}
}

// IsCurrent reports whether o belongs to the most recently issued search
func (m *Manager) IsCurrent(o Outcome) bool {
	return o.Seq == m.latest.Load()
}
