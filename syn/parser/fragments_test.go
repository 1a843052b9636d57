package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
)

func TestFragmentsPartitionSpan(t *testing.T) {
	text := "dogs  ?? cats\nrun"
	c := chart.New(text, chart.Span{Lower: 0, Upper: len(text) - 1})
	leaf(c, feature.Noun, 0, 3, nil)
	leaf(c, feature.Noun, 9, 12, nil)
	leaf(c, feature.Verb, 14, 16, nil)

	pieces := Fragments(c, 0, nil)

	cursor := 0
	for _, p := range pieces {
		assert.Equal(t, cursor, p.Span.Lower, "pieces are contiguous")
		cursor = p.Span.Upper + 1
	}
	assert.Equal(t, len(text), cursor)

	grouped := GroupGaps(pieces)
	require.Len(t, grouped, 5)
	assert.Equal(t, chart.Span{Lower: 4, Upper: 8}, grouped[1].Span)
	assert.True(t, grouped[1].Gap())
	assert.Equal(t, "  ?? ", GapText(c, grouped[1]))
	assert.Equal(t, "", GapText(c, grouped[3]), "newline gaps are not echoed")
}

func TestFragmentsTieCap(t *testing.T) {
	c := chart.New("", chart.Span{Lower: 0, Upper: 3})
	for i := 0; i < 20; i++ {
		leaf(c, feature.Noun, 0, 3, nil)
	}

	pieces := Fragments(c, 0, nil)
	require.Len(t, pieces, 1)
	assert.Len(t, pieces[0].Nodes, DefaultMaxFragmentTies)

	pieces = Fragments(c, 4, nil)
	assert.Equal(t, []chart.NodeID{0, 1, 2, 3}, pieces[0].Nodes)
}

func TestGroupGapsKeepsFragments(t *testing.T) {
	in := []Piece{
		{Span: chart.Span{Lower: 0, Upper: 0}},
		{Span: chart.Span{Lower: 1, Upper: 3}, Nodes: []chart.NodeID{1}},
		{Span: chart.Span{Lower: 4, Upper: 4}},
	}
	assert.Equal(t, in, GroupGaps(in))
	assert.Nil(t, GroupGaps(nil))
}
