package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/pulse/budget"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/filter"
	"github.com/teranos/chartparse/syn/grammar"
	"github.com/teranos/chartparse/syn/lexicon"
)

const houseText = "a house falls"

func houseTokens() []lexicon.Token {
	return []lexicon.Token{
		{Type: lexicon.Lexitem, Score: 1, Lower: 0, Upper: 0, Feature: feature.Determiner, Entry: &lexicon.Entry{Word: "a", Feature: feature.Determiner}},
		{Type: lexicon.Lexitem, Score: 1, Lower: 2, Upper: 6, Feature: feature.Noun, Entry: &lexicon.Entry{Word: "house", Feature: feature.Noun}},
		{Type: lexicon.Lexitem, Score: 1, Lower: 8, Upper: 12, Feature: feature.Verb, Entry: &lexicon.Entry{Word: "falls", Feature: feature.Verb}},
	}
}

func npTable() *grammar.Table {
	tbl := grammar.New()
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	return tbl
}

// counter records every sentence it is offered.
type counter struct {
	ids    []chart.NodeID
	accept bool
}

func (h *counter) OnSentenceCompleted(c *chart.Chart, id chart.NodeID) bool {
	h.ids = append(h.ids, id)
	return h.accept
}

func newParser(t *testing.T, tbl *grammar.Table, opts ...Option) *Parser {
	opts = append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return New(tbl, filter.Permissive(), opts...)
}

func TestNounPhraseOnly(t *testing.T) {
	p := newParser(t, npTable())

	var consumed []Piece
	res, err := p.Parse(context.Background(), Request{
		Text:   houseText,
		Tokens: houseTokens(),
		Consumer: ConsumerFunc(func(c *chart.Chart, piece Piece) {
			consumed = append(consumed, piece)
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, Unspanned, res.State)
	assert.Empty(t, res.Sentences)
	require.Equal(t, 4, res.Nodes)

	np := res.Chart.Node(3)
	assert.Equal(t, feature.NP, np.Feature)
	assert.Equal(t, chart.Span{Lower: 0, Upper: 6}, np.Span)
	assert.Equal(t, 1.0, np.Score)

	want := []Piece{
		{Span: chart.Span{Lower: 0, Upper: 6}, Nodes: []chart.NodeID{3}},
		{Span: chart.Span{Lower: 7, Upper: 7}},
		{Span: chart.Span{Lower: 8, Upper: 12}, Nodes: []chart.NodeID{2}},
	}
	assert.Equal(t, want, res.Fragments)
	assert.Equal(t, want, consumed)
	assert.Equal(t, 2, res.FragmentCount())
	assert.False(t, res.BudgetStopped)
}

func TestSentenceSpanned(t *testing.T) {
	tbl := npTable()
	tbl.Train(feature.NP, feature.Verb, feature.S)

	hook := &counter{accept: true}
	p := newParser(t, tbl, WithHook(hook))

	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)

	assert.Equal(t, Spanned, res.State)
	require.Len(t, res.Sentences, 1)
	s := res.Sentences[0]
	assert.Equal(t, chart.Span{Lower: 0, Upper: 12}, res.Chart.Node(s.ID).Span)
	assert.Equal(t, "[Z [X [D a] [N house]] [V falls]]", s.Tree)
	assert.True(t, s.Accepted)
	assert.Equal(t, []chart.NodeID{s.ID}, hook.ids)
	assert.Empty(t, res.Fragments)

	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, s.ID, best.ID)
}

func TestHookFiresWhenSentenceIsCreated(t *testing.T) {
	tbl := npTable()
	tbl.Train(feature.NP, feature.Verb, feature.S)
	tbl.Train(feature.S, feature.Null, feature.NP)

	var sizes []int
	var ids []chart.NodeID
	p := newParser(t, tbl, WithHook(HookFunc(func(c *chart.Chart, id chart.NodeID) bool {
		sizes = append(sizes, c.Len())
		ids = append(ids, id)
		return true
	})))

	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.Equal(t, Spanned, res.State)

	require.Len(t, ids, 1)
	// the sentence is the newest node when the hook runs
	assert.Equal(t, int(ids[0])+1, sizes[0])
	// and the loop keeps building on it afterwards: NP over S
	assert.Less(t, sizes[0], res.Nodes)
	last := res.Chart.Node(chart.NodeID(res.Nodes - 1))
	assert.Equal(t, feature.NP, last.Feature)
	assert.Equal(t, ids[0], last.Left)
}

func TestHookCannotGrowChart(t *testing.T) {
	tbl := npTable()
	tbl.Train(feature.NP, feature.Verb, feature.S)

	var sealed bool
	p := newParser(t, tbl, WithHook(HookFunc(func(c *chart.Chart, id chart.NodeID) bool {
		sealed = c.Sealed()
		assert.Equal(t, chart.None, c.Create(feature.NP, id, chart.None, c.Node(id).Span, 1))
		return true
	})))

	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.True(t, sealed)
	assert.Equal(t, 5, res.Nodes)
	assert.True(t, res.Chart.Sealed(), "a finished chart is read-only")
}

func TestRejectedSentenceFallsBackToFragments(t *testing.T) {
	tbl := npTable()
	tbl.Train(feature.NP, feature.Verb, feature.S)

	hook := &counter{accept: false}
	p := newParser(t, tbl, WithHook(hook))

	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)

	assert.Equal(t, Spanned, res.State)
	assert.Len(t, hook.ids, 1)
	require.Len(t, res.Fragments, 1)
	assert.Equal(t, chart.Span{Lower: 0, Upper: 12}, res.Fragments[0].Span)
	_, ok := res.Best()
	assert.False(t, ok)
}

func TestStrictAdjacency(t *testing.T) {
	p := newParser(t, npTable(), WithConfig(Config{StrictAdjacency: true}))

	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Nodes, "whitespace separates the determiner from the noun")
}

// reachable collects the (feature, span, score) of every node.
func reachable(c *chart.Chart) []string {
	var out []string
	for i := 0; i < c.Len(); i++ {
		n := c.Node(chart.NodeID(i))
		out = append(out, fmt.Sprintf("%s%s%.4f", n.Feature, n.Span, n.Score))
	}
	sort.Strings(out)
	return out
}

func TestDeterministic(t *testing.T) {
	tbl, err := grammar.Default()
	require.NoError(t, err)
	p := New(tbl, filter.Reference(), WithLogger(zaptest.NewLogger(t).Sugar()))

	text := "the old dog sees a cat"
	tokens := lexicon.English().Tokenize(text)

	first, err := p.Parse(context.Background(), Request{Text: text, Tokens: tokens})
	require.NoError(t, err)
	second, err := p.Parse(context.Background(), Request{Text: text, Tokens: tokens})
	require.NoError(t, err)

	assert.Equal(t, reachable(first.Chart), reachable(second.Chart))
	assert.Equal(t, first.State, second.State)
}

func TestNoDuplicateFiring(t *testing.T) {
	tbl, err := grammar.Default()
	require.NoError(t, err)
	p := New(tbl, filter.Permissive(), WithLogger(zaptest.NewLogger(t).Sugar()))

	text := "the dog sees a cat"
	res, err := p.Parse(context.Background(), Request{Text: text, Tokens: lexicon.English().Tokenize(text)})
	require.NoError(t, err)

	type key struct {
		f           feature.Feature
		left, right chart.NodeID
	}
	seen := make(map[key]bool)
	c := res.Chart
	for i := 0; i < c.Len(); i++ {
		n := c.Node(chart.NodeID(i))
		if n.Leaf() {
			continue
		}
		k := key{n.Feature, n.Left, n.Right}
		assert.False(t, seen[k], "rule fired twice: %v", k)
		seen[k] = true
	}
}

func TestCyclicUnaryRulesTerminate(t *testing.T) {
	tbl := grammar.New()
	tbl.Train(feature.Noun, feature.Null, feature.NP)
	tbl.Train(feature.NP, feature.Null, feature.S)
	tbl.Train(feature.S, feature.Null, feature.NP)

	p := newParser(t, tbl)
	res, err := p.Parse(context.Background(), Request{
		Tokens: []lexicon.Token{{Type: lexicon.Lexitem, Score: 1, Lower: 0, Upper: 3, Feature: feature.Noun}},
	})
	require.NoError(t, err)

	// N, NP over N, S over NP; NP over S is blocked by the chain.
	assert.Equal(t, 3, res.Nodes)
	assert.False(t, res.BudgetStopped)
	assert.Equal(t, Spanned, res.State)
}

func TestAmbiguityPreserved(t *testing.T) {
	tbl := npTable()
	tokens := houseTokens()
	tokens = append(tokens[:2], lexicon.Token{
		Type: lexicon.Lexitem, Score: 0.5, Lower: 2, Upper: 6, Feature: feature.Noun,
	}, tokens[2])

	p := newParser(t, tbl)
	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: tokens})
	require.NoError(t, err)

	var nps []*chart.Node
	for i := 0; i < res.Chart.Len(); i++ {
		if n := res.Chart.Node(chart.NodeID(i)); n.Feature == feature.NP {
			nps = append(nps, n)
		}
	}
	require.Len(t, nps, 2)
	assert.Equal(t, nps[0].Span, nps[1].Span)

	// ties are handed over best first
	require.NotEmpty(t, res.Fragments)
	first := res.Fragments[0]
	require.Len(t, first.Nodes, 2)
	assert.Equal(t, 1.0, res.Chart.Node(first.Nodes[0]).Score)
	assert.Equal(t, 0.5, res.Chart.Node(first.Nodes[1]).Score)
}

func TestBudgetStopsIteration(t *testing.T) {
	tbl := npTable()
	tbl.Train(feature.NP, feature.Verb, feature.S)

	p := newParser(t, tbl)
	res, err := p.Parse(context.Background(), Request{
		Text:   houseText,
		Tokens: houseTokens(),
		Budget: budget.Steps(1),
	})
	require.NoError(t, err)

	assert.True(t, res.BudgetStopped)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, Unspanned, res.State, "the sentence needs a second pass")
	assert.NotEmpty(t, res.Fragments)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err = p.Parse(ctx, Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.True(t, res.BudgetStopped)
	assert.Equal(t, 0, res.Passes)
	assert.Equal(t, 3, res.Nodes)
}

func TestMaxPasses(t *testing.T) {
	tbl := npTable()
	tbl.Train(feature.NP, feature.Verb, feature.S)

	p := newParser(t, tbl, WithConfig(Config{MaxPasses: 1}))
	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.True(t, res.BudgetStopped)
	assert.Equal(t, 1, res.Passes)
}

func TestSeedingNarrowsSpan(t *testing.T) {
	text := "oh, a house falls"
	tokens := []lexicon.Token{
		{Type: lexicon.Punctuation, Lower: 2, Upper: 2, Feature: feature.Element},
		{Type: lexicon.Lexitem, Score: 1, Lower: 4, Upper: 4, Feature: feature.Determiner},
		{Type: lexicon.Lexitem, Score: 1, Lower: 6, Upper: 10, Feature: feature.Noun},
	}

	p := newParser(t, npTable())
	res, err := p.Parse(context.Background(), Request{Text: text, Tokens: tokens})
	require.NoError(t, err)

	assert.Equal(t, chart.Span{Lower: 0, Upper: 16}, res.Requested)
	assert.Equal(t, chart.Span{Lower: 4, Upper: 10}, res.Span)
	assert.Equal(t, []chart.Span{{Lower: 0, Upper: 3}, {Lower: 11, Upper: 16}}, res.Untranslated)
	assert.Equal(t, 3, res.Nodes, "punctuation is not seeded")

	// tokens starting outside the requested range are ignored
	span := chart.Span{Lower: 4, Upper: 5}
	res, err = p.Parse(context.Background(), Request{Text: text, Tokens: tokens, Span: &span})
	require.NoError(t, err)
	assert.Equal(t, chart.Span{Lower: 4, Upper: 4}, res.Span)
}

func TestInvalidSpan(t *testing.T) {
	p := newParser(t, npTable())

	_, err := p.Parse(context.Background(), Request{Text: houseText, Span: &chart.Span{Lower: 5, Upper: 2}})
	assert.True(t, errors.Is(err, errors.ErrInvalidSpan))

	_, err = p.Parse(context.Background(), Request{Text: houseText, Span: &chart.Span{Lower: 0, Upper: 40}})
	assert.True(t, errors.Is(err, errors.ErrInvalidSpan))

	_, err = p.Parse(context.Background(), Request{})
	assert.True(t, errors.Is(err, errors.ErrInvalidSpan))
}

func TestNothingSeeded(t *testing.T) {
	p := newParser(t, npTable())
	res, err := p.Parse(context.Background(), Request{Text: "zz"})
	require.NoError(t, err)

	assert.Equal(t, Unspanned, res.State)
	assert.Equal(t, 0, res.Nodes)
	assert.Equal(t, []Piece{
		{Span: chart.Span{Lower: 0, Upper: 0}},
		{Span: chart.Span{Lower: 1, Upper: 1}},
	}, res.Fragments)
}

func TestDumpOnUnspanned(t *testing.T) {
	var buf bytes.Buffer
	p := newParser(t, npTable(), WithDump(&buf))

	_, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "house")
}

func TestBreakpoint(t *testing.T) {
	var hits []filter.Breakpoint
	p := newParser(t, npTable(), WithBreakpoints(func(bp filter.Breakpoint) {
		hits = append(hits, bp)
	}, filter.Breakpoint{Left: 0, Right: 1, Target: feature.NP}))

	_, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestCompoundNounOnly(t *testing.T) {
	p := newParser(t, npTable(), WithConfig(Config{CompoundNounOnly: true}))
	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Nodes)
}

func TestResultJSON(t *testing.T) {
	p := newParser(t, npTable())
	res, err := p.Parse(context.Background(), Request{Text: houseText, Tokens: houseTokens()})
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "unspanned", decoded["state"])
	assert.EqualValues(t, 4, decoded["nodes"])
	assert.Len(t, decoded["fragments"], 3)
	assert.NotContains(t, decoded, "Chart")
}

func TestEnglishSentence(t *testing.T) {
	tbl, err := grammar.Default()
	require.NoError(t, err)

	hook := &counter{accept: true}
	p := New(tbl, filter.Reference(), WithHook(hook), WithLogger(zaptest.NewLogger(t).Sugar()))

	text := "the dog runs"
	res, err := p.Parse(context.Background(), Request{Text: text, Tokens: lexicon.English().Tokenize(text)})
	require.NoError(t, err)

	assert.Equal(t, Spanned, res.State)
	assert.NotEmpty(t, hook.ids)
	for _, s := range res.Sentences {
		assert.Equal(t, chart.Span{Lower: 0, Upper: 11}, res.Chart.Node(s.ID).Span)
	}
}
