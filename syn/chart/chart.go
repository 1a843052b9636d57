// Package chart is the per-sentence node arena of the chart parser.
//
// A Chart owns every constituent built while parsing one span of text.
// Nodes are addressed by NodeID, which is both the creation order and the
// index into the arena. Nodes are never removed or merged: two nodes may
// share a feature and a span when the sentence is ambiguous.
package chart

import (
	"fmt"
	"unicode"

	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/lexicon"
)

// NodeID addresses a node within one chart.
type NodeID int

// None marks an absent child.
const None NodeID = -1

// Span is an inclusive byte range [Lower, Upper].
type Span struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// Valid reports whether the span is non-empty and non-negative.
func (s Span) Valid() bool {
	return s.Lower >= 0 && s.Lower <= s.Upper
}

// Contains reports whether o lies inside s.
func (s Span) Contains(o Span) bool {
	return o.Lower >= s.Lower && o.Upper <= s.Upper
}

// Len is the number of bytes covered.
func (s Span) Len() int {
	return s.Upper - s.Lower + 1
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d]", s.Lower, s.Upper)
}

// Node is one constituent. Children are fixed at creation.
type Node struct {
	ID      NodeID          `json:"id"`
	Feature feature.Feature `json:"feature"`
	Score   float64         `json:"score"`
	Span    Span            `json:"span"`
	Left    NodeID          `json:"left"`
	Right   NodeID          `json:"right"`

	// Type and Lex are set on leaves only.
	Type lexicon.Type   `json:"type"`
	Lex  *lexicon.Entry `json:"lex,omitempty"`

	// SingletonsApplied is sticky: once unary rules were tried on this node
	// they are never tried again.
	SingletonsApplied bool `json:"-"`

	versus map[NodeID]struct{}
}

// Leaf reports whether the node came from the lexical supply.
func (n *Node) Leaf() bool {
	return n.Left == None
}

// Unary reports whether the node has exactly one child.
func (n *Node) Unary() bool {
	return n.Left != None && n.Right == None
}

// Chart is the arena for one sentence. It is not safe for concurrent
// mutation; a finished chart may be read from several goroutines.
type Chart struct {
	text   string
	span   Span
	strict bool
	sealed bool
	nodes  []*Node

	// skip[i] is the first non-space offset at or after i.
	skip []int

	byLower map[int][]NodeID
	byUpper map[int][]NodeID
}

// New returns an empty chart over span. text may be empty, in which case
// adjacency is strict.
func New(text string, span Span) *Chart {
	c := &Chart{
		text:    text,
		span:    span,
		byLower: make(map[int][]NodeID),
		byUpper: make(map[int][]NodeID),
	}
	if text != "" {
		c.skip = make([]int, len(text)+1)
		c.skip[len(text)] = len(text)
		for i := len(text) - 1; i >= 0; i-- {
			if unicode.IsSpace(rune(text[i])) {
				c.skip[i] = c.skip[i+1]
			} else {
				c.skip[i] = i
			}
		}
	}
	return c
}

// SetStrictAdjacency disables the whitespace rule even when text is known.
func (c *Chart) SetStrictAdjacency(strict bool) {
	c.strict = strict
}

// Seal makes the chart read-only: AddLeaf and Create return None and
// MarkAttempted does nothing until Unseal. Collaborators that are handed the
// chart mid-parse run against a sealed chart.
func (c *Chart) Seal() {
	c.sealed = true
}

func (c *Chart) Unseal() {
	c.sealed = false
}

// Sealed reports whether the chart refuses mutation.
func (c *Chart) Sealed() bool {
	return c.sealed
}

func (c *Chart) refuse(op string) bool {
	if !c.sealed {
		return false
	}
	logger.Warnw("Refusing to modify sealed chart", "op", op)
	return true
}

// Text is the source text, possibly empty.
func (c *Chart) Text() string {
	return c.text
}

// Span is the span being parsed.
func (c *Chart) Span() Span {
	return c.span
}

// SetSpan narrows the span after seeding.
func (c *Chart) SetSpan(s Span) {
	c.span = s
}

// Len is the number of nodes created so far.
func (c *Chart) Len() int {
	return len(c.nodes)
}

// Node returns the node with the given id, or nil.
func (c *Chart) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(c.nodes) {
		return nil
	}
	return c.nodes[id]
}

// First returns the left child of n, or nil.
func (c *Chart) First(n *Node) *Node {
	if n == nil {
		return nil
	}
	return c.Node(n.Left)
}

// Second returns the right child of n, or nil.
func (c *Chart) Second(n *Node) *Node {
	if n == nil {
		return nil
	}
	return c.Node(n.Right)
}

// AddLeaf seeds a lexical token. Tokens with an invalid span are logged and
// dropped.
func (c *Chart) AddLeaf(tok lexicon.Token) NodeID {
	if c.refuse("add_leaf") {
		return None
	}
	span := Span{Lower: tok.Lower, Upper: tok.Upper}
	if !span.Valid() {
		logger.Warnw("Dropping token with invalid span",
			logger.FieldLower, tok.Lower,
			logger.FieldUpper, tok.Upper)
		return None
	}
	f := tok.Feature
	if f == feature.Null {
		f = tok.Type.DefaultFeature()
	}
	score := tok.Score
	if score <= 0 || score > 1 {
		score = 1
	}
	return c.add(&Node{
		Feature: f,
		Score:   score,
		Span:    span,
		Left:    None,
		Right:   None,
		Type:    tok.Type,
		Lex:     tok.Entry,
	})
}

// Create appends a constituent over span with the given children. right may
// be None. Malformed requests are logged and yield None.
func (c *Chart) Create(f feature.Feature, left, right NodeID, span Span, score float64) NodeID {
	if c.refuse("create") {
		return None
	}
	if c.Node(left) == nil || (right != None && c.Node(right) == nil) || !span.Valid() {
		logger.Warnw("Refusing to create malformed node",
			logger.FieldFeature, f.String(),
			"left", int(left),
			"right", int(right),
			logger.FieldLower, span.Lower,
			logger.FieldUpper, span.Upper)
		return None
	}
	return c.add(&Node{
		Feature: f,
		Score:   score,
		Span:    span,
		Left:    left,
		Right:   right,
		Type:    lexicon.Constituent,
	})
}

func (c *Chart) add(n *Node) NodeID {
	n.ID = NodeID(len(c.nodes))
	c.nodes = append(c.nodes, n)
	c.byLower[n.Span.Lower] = append(c.byLower[n.Span.Lower], n.ID)
	c.byUpper[n.Span.Upper] = append(c.byUpper[n.Span.Upper], n.ID)
	return n.ID
}

// MarkAttempted records that the ordered pair (left, right) was tried.
func (c *Chart) MarkAttempted(left, right NodeID) {
	n := c.Node(left)
	if n == nil || c.refuse("mark_attempted") {
		return
	}
	if n.versus == nil {
		n.versus = make(map[NodeID]struct{})
	}
	n.versus[right] = struct{}{}
}

// AlreadyAttempted reports whether MarkAttempted(left, right) happened.
func (c *Chart) AlreadyAttempted(left, right NodeID) bool {
	n := c.Node(left)
	if n == nil {
		return false
	}
	_, ok := n.versus[right]
	return ok
}

// next returns the offset a right neighbor of something ending at upper must
// start at.
func (c *Chart) next(upper int) int {
	i := upper + 1
	if c.strict || c.skip == nil || i >= len(c.text) || i < 0 {
		return i
	}
	return c.skip[i]
}

// Adjacent reports whether q starts right after p ends.
func (c *Chart) Adjacent(p, q NodeID) bool {
	pn, qn := c.Node(p), c.Node(q)
	if pn == nil || qn == nil {
		return false
	}
	return qn.Span.Lower == c.next(pn.Span.Upper)
}

// RightNeighbors lists nodes with id below limit that are right-adjacent to p.
func (c *Chart) RightNeighbors(p NodeID, limit int) []NodeID {
	pn := c.Node(p)
	if pn == nil {
		return nil
	}
	return below(c.byLower[c.next(pn.Span.Upper)], limit)
}

// LeftNeighbors lists nodes with id below limit that p is right-adjacent to.
func (c *Chart) LeftNeighbors(p NodeID, limit int) []NodeID {
	pn := c.Node(p)
	if pn == nil {
		return nil
	}
	var out []NodeID
	for upper := pn.Span.Lower - 1; upper >= 0; upper-- {
		for _, id := range below(c.byUpper[upper], limit) {
			if c.next(upper) == pn.Span.Lower {
				out = append(out, id)
			}
		}
		if c.strict || c.skip == nil || upper >= len(c.text) || !unicode.IsSpace(rune(c.text[upper])) {
			break
		}
	}
	return out
}

// StartingAt lists every node whose span begins at lower, in creation order.
func (c *Chart) StartingAt(lower int) []NodeID {
	return c.byLower[lower]
}

func below(ids []NodeID, limit int) []NodeID {
	for i, id := range ids {
		if int(id) >= limit {
			return ids[:i]
		}
	}
	return ids
}
