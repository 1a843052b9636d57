package parser

import (
	"time"

	"github.com/teranos/chartparse/syn/chart"
)

// State is where a parse is in its lifecycle.
type State int

const (
	Seeded State = iota
	Iterating
	Stable
	Spanned
	Unspanned
)

var stateNames = [...]string{"seeded", "iterating", "stable", "spanned", "unspanned"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Sentence is a top-level S node covering the whole span.
type Sentence struct {
	ID       chart.NodeID `json:"id"`
	Score    float64      `json:"score"`
	Tree     string       `json:"tree"`
	Accepted bool         `json:"accepted"`
}

// Result is the outcome of one parse.
type Result struct {
	State     State      `json:"state"`
	Requested chart.Span `json:"requested"`
	// Span is the requested range narrowed to the seeded tokens.
	Span         chart.Span   `json:"span"`
	Untranslated []chart.Span `json:"untranslated,omitempty"`

	Sentences []Sentence `json:"sentences,omitempty"`
	Fragments []Piece    `json:"fragments,omitempty"`

	Passes        int           `json:"passes"`
	Nodes         int           `json:"nodes"`
	BudgetStopped bool          `json:"budget_stopped"`
	Elapsed       time.Duration `json:"elapsed_ns"`

	Chart *chart.Chart `json:"-"`
}

// Best returns the highest scoring accepted sentence, ties going to the
// earliest created.
func (r *Result) Best() (Sentence, bool) {
	var best Sentence
	found := false
	for _, s := range r.Sentences {
		if s.Accepted && (!found || s.Score > best.Score) {
			best = s
			found = true
		}
	}
	return best, found
}

func (r *Result) anyAccepted() bool {
	_, ok := r.Best()
	return ok
}

// FragmentCount counts fragment positions, gaps excluded.
func (r *Result) FragmentCount() int {
	n := 0
	for _, p := range r.Fragments {
		if !p.Gap() {
			n++
		}
	}
	return n
}
