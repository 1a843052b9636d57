package parser

import (
	"sort"

	"github.com/teranos/chartparse/syn/chart"
)

// Piece is one step of fragment recovery: either the nodes tied for the
// longest reach from a position, or a one-byte gap where nothing starts.
type Piece struct {
	Span  chart.Span     `json:"span"`
	Nodes []chart.NodeID `json:"nodes,omitempty"`
}

// Gap reports whether p is a gap marker.
func (p Piece) Gap() bool {
	return len(p.Nodes) == 0
}

// FragmentConsumer receives pieces in span order.
type FragmentConsumer interface {
	Consume(c *chart.Chart, p Piece)
}

// ConsumerFunc adapts a function to FragmentConsumer.
type ConsumerFunc func(c *chart.Chart, p Piece)

func (f ConsumerFunc) Consume(c *chart.Chart, p Piece) {
	f(c, p)
}

// Fragments covers the chart span greedily from the left with the nodes
// reaching furthest, stepping over single bytes nothing starts at. At most
// maxTies nodes are kept per position, best scores first. The pieces
// partition the span. consumer may be nil.
func Fragments(c *chart.Chart, maxTies int, consumer FragmentConsumer) []Piece {
	if maxTies <= 0 {
		maxTies = DefaultMaxFragmentTies
	}
	span := c.Span()

	var out []Piece
	emit := func(p Piece) {
		out = append(out, p)
		if consumer != nil {
			consumer.Consume(c, p)
		}
	}

	for cursor := span.Lower; cursor <= span.Upper; {
		reach := -1
		for _, id := range c.StartingAt(cursor) {
			if u := c.Node(id).Span.Upper; u <= span.Upper && u > reach {
				reach = u
			}
		}
		if reach < 0 {
			emit(Piece{Span: chart.Span{Lower: cursor, Upper: cursor}})
			cursor++
			continue
		}

		var tied []chart.NodeID
		for _, id := range c.StartingAt(cursor) {
			if c.Node(id).Span.Upper == reach {
				tied = append(tied, id)
			}
		}
		sort.SliceStable(tied, func(i, j int) bool {
			return c.Node(tied[i]).Score > c.Node(tied[j]).Score
		})
		if len(tied) > maxTies {
			tied = tied[:maxTies]
		}
		emit(Piece{Span: chart.Span{Lower: cursor, Upper: reach}, Nodes: tied})
		cursor = reach + 1
	}
	return out
}

// GroupGaps merges runs of adjacent gap markers into one gap each.
func GroupGaps(pieces []Piece) []Piece {
	var out []Piece
	for _, p := range pieces {
		if n := len(out); p.Gap() && n > 0 && out[n-1].Gap() && out[n-1].Span.Upper+1 == p.Span.Lower {
			out[n-1].Span.Upper = p.Span.Upper
			continue
		}
		out = append(out, p)
	}
	return out
}

// GapText returns the text a gap covers with newlines dropped. It is empty
// when the chart carries no text.
func GapText(c *chart.Chart, p Piece) string {
	text := c.Text()
	if text == "" || p.Span.Upper >= len(text) {
		return ""
	}
	b := make([]byte, 0, p.Span.Len())
	for i := p.Span.Lower; i <= p.Span.Upper; i++ {
		if text[i] != '\n' && text[i] != '\r' {
			b = append(b, text[i])
		}
	}
	return string(b)
}
