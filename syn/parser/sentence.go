package parser

import (
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/lexicon"
)

// TopLevelSentence reports whether the S node id may stand as a whole
// sentence. "he happy" style S = NP + ADJP is rejected, as is a sentence whose
// leading verb is a present participle ("he being tall").
func TopLevelSentence(c *chart.Chart, id chart.NodeID) bool {
	z := c.Node(id)
	if z == nil || z.Feature != feature.S {
		return false
	}
	first, second := c.First(z), c.Second(z)
	if first != nil && second != nil && first.Feature == feature.NP && second.Feature == feature.AdjP {
		return false
	}
	aux, _ := c.HeadVerbsS(z)
	if aux != nil && aux.Lex != nil && aux.Lex.Inflection.Tense == lexicon.TensePresentParticiple {
		return false
	}
	return true
}

// SemanticConstituent returns the child a semantic reading of id hangs on:
// the S under a lone NP, and the NP object of PP, VP, S and ADJP pairs.
func SemanticConstituent(c *chart.Chart, id chart.NodeID) (chart.NodeID, bool) {
	n := c.Node(id)
	if n == nil {
		return chart.None, false
	}
	first, second := c.First(n), c.Second(n)
	if first == nil {
		return chart.None, false
	}
	if second == nil {
		if n.Feature == feature.NP && first.Feature == feature.S {
			return first.ID, true
		}
		return chart.None, false
	}

	var want feature.Feature
	switch n.Feature {
	case feature.PP:
		want = feature.Preposition
	case feature.VP:
		want = feature.VP
	case feature.S:
		want = feature.NP
	case feature.AdjP:
		want = feature.AdjP
	default:
		return chart.None, false
	}
	if first.Feature != want {
		return chart.None, false
	}
	if n.Feature == feature.S {
		if second.Feature == feature.VP {
			return first.ID, true
		}
		return chart.None, false
	}
	if second.Feature == feature.NP {
		return second.ID, true
	}
	return chart.None, false
}
