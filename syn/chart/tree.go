package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/lexicon"
)

// Leftmost returns the leftmost leaf under n.
func (c *Chart) Leftmost(n *Node) *Node {
	for n != nil && !n.Leaf() {
		n = c.First(n)
	}
	return n
}

// Rightmost returns the rightmost leaf under n.
func (c *Chart) Rightmost(n *Node) *Node {
	for n != nil && !n.Leaf() {
		if n.Right != None {
			n = c.Second(n)
		} else {
			n = c.First(n)
		}
	}
	return n
}

// LeftmostEntry is the lexical entry of the leftmost leaf, if it has one.
func (c *Chart) LeftmostEntry(n *Node) *lexicon.Entry {
	if l := c.Leftmost(n); l != nil {
		return l.Lex
	}
	return nil
}

// RightmostEntry is the lexical entry of the rightmost leaf, if it has one.
func (c *Chart) RightmostEntry(n *Node) *lexicon.Entry {
	if r := c.Rightmost(n); r != nil {
		return r.Lex
	}
	return nil
}

// Terminals counts the leaves under n.
func (c *Chart) Terminals(n *Node) int {
	if n == nil {
		return 0
	}
	if n.Leaf() {
		return 1
	}
	return c.Terminals(c.First(n)) + c.Terminals(c.Second(n))
}

// Words counts words under n. A multi-word entry ("New York") counts each
// word; non-lexical leaves count as one.
func (c *Chart) Words(n *Node) int {
	if n == nil {
		return 0
	}
	if n.Leaf() {
		if n.Lex != nil && n.Lex.Word != "" {
			return len(strings.Fields(n.Lex.Word))
		}
		return 1
	}
	return c.Words(c.First(n)) + c.Words(c.Second(n))
}

// FeatureIn reports whether any node under n, n included, has feature f.
func (c *Chart) FeatureIn(n *Node, f feature.Feature) bool {
	if n == nil {
		return false
	}
	if n.Feature == f {
		return true
	}
	return c.FeatureIn(c.First(n), f) || c.FeatureIn(c.Second(n), f)
}

// InUnaryChain reports whether f occurs on n or on any node reached from n
// through single-child links.
func (c *Chart) InUnaryChain(id NodeID, f feature.Feature) bool {
	for n := c.Node(id); n != nil; {
		if n.Feature == f {
			return true
		}
		if !n.Unary() {
			return false
		}
		n = c.First(n)
	}
	return false
}

// IsVerbGroup reports whether n is a VP made only of verbs: [W [V]] or
// [W [W ...] [V]].
func (c *Chart) IsVerbGroup(n *Node) bool {
	if n == nil || n.Feature != feature.VP {
		return false
	}
	first, second := c.First(n), c.Second(n)
	if first == nil {
		return false
	}
	if second == nil {
		return first.Feature == feature.Verb
	}
	return second.Feature == feature.Verb && first.Feature == feature.VP && c.IsVerbGroup(first)
}

// HeadVerbs returns the auxiliary (leftmost) and main (rightmost) verb of a
// VP's verb group. Either may be nil.
func (c *Chart) HeadVerbs(w *Node) (aux, main *Node) {
	if w == nil {
		return nil, nil
	}
	c.headVerbs(w, true, true, &aux, &main)
	return aux, main
}

func (c *Chart) headVerbs(w *Node, leftmost, rightmost bool, aux, main **Node) {
	first, second := c.First(w), c.Second(w)
	switch {
	case first != nil && first.Feature == feature.Verb && second == nil:
		if leftmost {
			*aux = first
		}
		if rightmost {
			*main = first
		}
	case first != nil && first.Feature == feature.VP && second != nil && second.Feature == feature.Verb:
		c.headVerbs(first, leftmost, false, aux, main)
		if rightmost {
			*main = second
		}
	case first != nil && first.Feature == feature.VP:
		c.headVerbs(first, leftmost, rightmost, aux, main)
	case second != nil && second.Feature == feature.VP:
		c.headVerbs(second, leftmost, rightmost, aux, main)
	}
}

// HeadVerbsS is HeadVerbs for a sentence of the form [Z NP VP].
func (c *Chart) HeadVerbsS(z *Node) (aux, main *Node) {
	first, second := c.First(z), c.Second(z)
	if first != nil && first.Feature == feature.NP && second != nil && second.Feature == feature.VP {
		return c.HeadVerbs(second)
	}
	return nil, nil
}

// CountVPObjects counts NP (obj) and PP (iobj) complements that a VP built
// from left and right would carry, walking down the VP spine.
func (c *Chart) CountVPObjects(left, right *Node) (obj, iobj int) {
	for {
		if right != nil {
			switch right.Feature {
			case feature.PP:
				iobj++
			case feature.NP:
				obj++
			}
		}
		if left == nil || left.Feature != feature.VP {
			return obj, iobj
		}
		left, right = c.First(left), c.Second(left)
	}
}

// Bracket renders the tree under id in corpus notation, for example
// "[Z [X [D a] [N house]] [W [V falls]]]".
func (c *Chart) Bracket(id NodeID) string {
	var b strings.Builder
	c.bracket(&b, c.Node(id))
	return b.String()
}

func (c *Chart) bracket(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	b.WriteByte('[')
	b.WriteByte(n.Feature.Code())
	if n.Leaf() {
		b.WriteByte(' ')
		b.WriteString(c.leafText(n))
	}
	for _, child := range []*Node{c.First(n), c.Second(n)} {
		if child != nil {
			b.WriteByte(' ')
			c.bracket(b, child)
		}
	}
	b.WriteByte(']')
}

// SpanText returns the source text under s, or "" when the chart has none.
func (c *Chart) SpanText(s Span) string {
	if s.Lower < 0 || s.Upper >= len(c.text) || !s.Valid() {
		return ""
	}
	return c.text[s.Lower : s.Upper+1]
}

func (c *Chart) leafText(n *Node) string {
	if t := c.SpanText(n.Span); t != "" {
		return t
	}
	if n.Lex != nil {
		return n.Lex.Word
	}
	return n.Type.String()
}

// Dump writes every node, one per line, in creation order.
func (c *Chart) Dump(w io.Writer) error {
	for _, n := range c.nodes {
		var err error
		if n.Leaf() {
			_, err = fmt.Fprintf(w, "%4d %c%s %.3f %s %q\n",
				n.ID, n.Feature.Code(), n.Span, n.Score, n.Type, c.leafText(n))
		} else if n.Right == None {
			_, err = fmt.Fprintf(w, "%4d %c%s %.3f <- %d\n",
				n.ID, n.Feature.Code(), n.Span, n.Score, n.Left)
		} else {
			_, err = fmt.Fprintf(w, "%4d %c%s %.3f <- %d %d\n",
				n.ID, n.Feature.Code(), n.Span, n.Score, n.Left, n.Right)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
