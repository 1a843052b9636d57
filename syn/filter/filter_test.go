package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/grammar"
	"github.com/teranos/chartparse/syn/lexicon"
)

// builder lays words out left to right with one space between them.
type builder struct {
	c   *chart.Chart
	pos int
}

func newBuilder() *builder {
	return &builder{c: chart.New("", chart.Span{Lower: 0, Upper: 10000})}
}

func (b *builder) word(f feature.Feature, word string, tags ...string) *chart.Node {
	return b.inflected(f, word, lexicon.Inflection{}, tags...)
}

func (b *builder) inflected(f feature.Feature, word string, infl lexicon.Inflection, tags ...string) *chart.Node {
	lower := b.pos
	upper := lower + len(word) - 1
	b.pos = upper + 2
	id := b.c.AddLeaf(lexicon.Token{
		Type:    lexicon.Lexitem,
		Score:   1,
		Lower:   lower,
		Upper:   upper,
		Feature: f,
		Entry:   &lexicon.Entry{Word: word, Feature: f, Tags: tags, Inflection: infl},
	})
	return b.c.Node(id)
}

func (b *builder) node(f feature.Feature, left, right *chart.Node) *chart.Node {
	rightID := chart.None
	upper := left.Span.Upper
	if right != nil {
		rightID = right.ID
		upper = right.Span.Upper
	}
	id := b.c.Create(f, left.ID, rightID, chart.Span{Lower: left.Span.Lower, Upper: upper}, 1)
	return b.c.Node(id)
}

func (b *builder) env() *Env {
	return &Env{Chart: b.c, Language: "en"}
}

func TestEvaluatorRequiresTable(t *testing.T) {
	b := newBuilder()
	d := b.word(feature.Determiner, "a")
	n := b.word(feature.Noun, "house")

	tbl := grammar.New()
	e := NewEvaluator(tbl, nil)
	assert.Equal(t, 0.0, e.Score(b.c, d.ID, n.ID, feature.NP))

	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	assert.Equal(t, 1.0, e.Score(b.c, d.ID, n.ID, feature.NP))
	assert.Equal(t, 0.0, e.Score(b.c, d.ID, n.ID, feature.S))
	assert.Equal(t, 0.0, e.Score(b.c, d.ID, chart.None, feature.NP))

	tbl.Train(feature.Noun, feature.Null, feature.NP)
	assert.Equal(t, 1.0, e.Score(b.c, n.ID, chart.None, feature.NP))
}

func TestEvaluatorCombinesChildScores(t *testing.T) {
	c := chart.New("", chart.Span{Lower: 0, Upper: 10})
	d := c.AddLeaf(lexicon.Token{Type: lexicon.Lexitem, Score: 0.5, Lower: 0, Upper: 0, Feature: feature.Determiner})
	n := c.AddLeaf(lexicon.Token{Type: lexicon.Lexitem, Score: 0.5, Lower: 1, Upper: 3, Feature: feature.Noun})

	tbl := grammar.New()
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)

	set := NewSet("half").Pair(feature.Determiner, feature.Noun, feature.NP,
		func(*Env, *chart.Node, *chart.Node) float64 { return 0.5 })
	e := NewEvaluator(tbl, set)
	assert.InDelta(t, 0.125, e.Score(c, d, n, feature.NP), 1e-9)

	// pure: same inputs, same result
	assert.Equal(t, e.Score(c, d, n, feature.NP), e.Score(c, d, n, feature.NP))
}

func TestEvaluatorVeto(t *testing.T) {
	b := newBuilder()
	h := b.word(feature.Pronoun, "who")

	tbl := grammar.New()
	tbl.Train(feature.Pronoun, feature.Null, feature.NP)

	set := NewSet("veto").Singleton(feature.Pronoun, feature.NP,
		func(*Env, *chart.Node) float64 { return 0 })
	e := NewEvaluator(tbl, set)
	assert.Equal(t, 0.0, e.Score(b.c, h.ID, chart.None, feature.NP))
}

func TestCompoundNounOnly(t *testing.T) {
	b := newBuilder()
	x1 := b.node(feature.NP, b.word(feature.Noun, "data"), nil)
	x2 := b.node(feature.NP, b.word(feature.Noun, "center"), nil)
	d := b.word(feature.Determiner, "the")

	tbl := grammar.New()
	tbl.Train(feature.NP, feature.NP, feature.NP)
	tbl.Train(feature.Determiner, feature.NP, feature.NP)

	e := NewEvaluator(tbl, nil)
	e.Mode = CompoundNounOnly
	assert.Equal(t, 1.0, e.Score(b.c, x1.ID, x2.ID, feature.NP))
	assert.Equal(t, 0.0, e.Score(b.c, d.ID, x2.ID, feature.NP))
}

func TestValenceRestriction(t *testing.T) {
	b := newBuilder()
	w1 := b.node(feature.VP, b.word(feature.Verb, "give"), nil)
	x1 := b.node(feature.NP, b.word(feature.Noun, "bob"), nil)
	x2 := b.node(feature.NP, b.word(feature.Noun, "flowers"), nil)
	x3 := b.node(feature.NP, b.word(feature.Noun, "today"), nil)
	w2 := b.node(feature.VP, w1, x1)
	w3 := b.node(feature.VP, w2, x2)

	tbl := grammar.New()
	tbl.Train(feature.VP, feature.NP, feature.VP)

	set := NewSet("valence")
	set.Valence = true
	e := NewEvaluator(tbl, set)

	assert.Equal(t, 1.0, e.Score(b.c, w2.ID, x2.ID, feature.VP))
	assert.Equal(t, 0.0, e.Score(b.c, w3.ID, x3.ID, feature.VP))

	e.Filters = Permissive()
	assert.Equal(t, 1.0, e.Score(b.c, w3.ID, x3.ID, feature.VP))
}

func TestBreakpoint(t *testing.T) {
	b := newBuilder()
	d := b.word(feature.Determiner, "a")
	n := b.word(feature.Noun, "house")

	tbl := grammar.New()
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)

	var hits []Breakpoint
	e := NewEvaluator(tbl, nil)
	e.Breakpoints = []Breakpoint{{Left: d.ID, Right: n.ID, Target: feature.NP}}
	e.OnBreakpoint = func(bp Breakpoint) { hits = append(hits, bp) }

	assert.Equal(t, 1.0, e.Score(b.c, d.ID, n.ID, feature.NP))
	e.Score(b.c, d.ID, n.ID, feature.S)
	require.Len(t, hits, 1)
	assert.Equal(t, feature.NP, hits[0].Target)
}

func TestMissingNodes(t *testing.T) {
	b := newBuilder()
	d := b.word(feature.Determiner, "a")
	e := NewEvaluator(grammar.New(), nil)
	assert.Equal(t, 0.0, e.Score(b.c, chart.NodeID(77), chart.None, feature.NP))
	assert.Equal(t, 0.0, e.Score(b.c, d.ID, chart.NodeID(77), feature.NP))
}

func TestProduct(t *testing.T) {
	assert.Equal(t, 0.25, Product(0.5, 0.5))
	assert.Equal(t, 0.0, Product(0, 0.7))
	assert.Equal(t, ScoreMax, Product(3, 0.5))
	assert.Equal(t, ScoreMax, Product(0.5, -1))
}

func TestSetTriples(t *testing.T) {
	s := Reference()
	triples := s.Triples()
	assert.Equal(t, s.Len(), len(triples))
	for i := 1; i < len(triples); i++ {
		a, b := triples[i-1], triples[i]
		assert.True(t, a.Left < b.Left || (a.Left == b.Left && (a.Right < b.Right ||
			(a.Right == b.Right && a.Target < b.Target))), "unsorted at %d", i)
	}
	assert.Contains(t, triples, Triple{feature.NP, feature.VP, feature.S})
	assert.Contains(t, triples, Triple{feature.Pronoun, feature.Null, feature.NP})
	assert.Equal(t, "XW_Z", Triple{feature.NP, feature.VP, feature.S}.String())
	assert.Equal(t, "H_X", Triple{feature.Pronoun, feature.Null, feature.NP}.String())
	assert.Equal(t, 0, Permissive().Len())
}
