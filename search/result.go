package search

import "howlongtobeat/models"

// State is what a presentation layer should show for a query
type State int

const (
	StateLoading State = iota
	StateResults
	StateEmpty
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateResults:
		return "results"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one search as seen by the presentation layer.
// An empty result list and an error are distinct states.
type Outcome struct {
	Query string
	Seq   uint64 // issue order, used to drop superseded outcomes
	Games []models.Game
	Err   error
	Done  bool
}

// Pending returns the outcome of a search that has not finished yet
func Pending(query string, seq uint64) Outcome {
	return Outcome{Query: query, Seq: seq}
}

// State classifies the outcome
func (o Outcome) State() State {
	switch {
	case !o.Done:
		return StateLoading
	case o.Err != nil:
		return StateError
	case len(o.Games) == 0:
		return StateEmpty
	default:
		return StateResults
	}
}
