package grammar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/syn/feature"
)

func TestTrainAndFires(t *testing.T) {
	tbl := New()
	assert.False(t, tbl.Fires(feature.Determiner, feature.Noun, feature.NP))

	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	tbl.Train(feature.Pronoun, feature.Null, feature.NP)

	assert.True(t, tbl.Fires(feature.Determiner, feature.Noun, feature.NP))
	assert.Equal(t, 2, tbl.Count(feature.Determiner, feature.Noun, feature.NP))
	assert.True(t, tbl.Fires(feature.Pronoun, feature.Null, feature.NP))
	assert.False(t, tbl.Fires(feature.Noun, feature.Determiner, feature.NP))
	assert.Equal(t, 2, tbl.Len())
}

func TestInvalidFeaturesAreIgnored(t *testing.T) {
	tbl := New()
	tbl.Train(feature.Feature(40), feature.Null, feature.NP)
	tbl.Set(feature.Noun, feature.Null, feature.NP, -3)
	tbl.Set(feature.Noun, feature.Null, feature.Feature(-1), 3)

	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Fires(feature.Feature(40), feature.Null, feature.NP))

	var nilTable *Table
	assert.False(t, nilTable.Fires(feature.Noun, feature.Null, feature.NP))
}

func TestRulesOrderAndString(t *testing.T) {
	tbl := New()
	tbl.Train(feature.NP, feature.VP, feature.S)
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	tbl.Train(feature.Pronoun, feature.Null, feature.NP)

	rules := tbl.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, feature.Determiner, rules[0].Left)
	assert.Equal(t, feature.NP, rules[1].Left)
	assert.Equal(t, feature.Pronoun, rules[2].Left)
	assert.True(t, rules[2].Unary())

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteRules(&buf))
	assert.Equal(t, "X <- D N 1\nZ <- X W 1\nX <- H 1\n", buf.String())
}

func TestMerge(t *testing.T) {
	a := New()
	a.Train(feature.Determiner, feature.Noun, feature.NP)
	b := New()
	b.Train(feature.Determiner, feature.Noun, feature.NP)
	b.Train(feature.Verb, feature.Null, feature.VP)

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, 2, a.Count(feature.Determiner, feature.Noun, feature.NP))
	assert.Equal(t, 1, a.Count(feature.Verb, feature.Null, feature.VP))
}
