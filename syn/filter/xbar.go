package filter

import (
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/lexicon"
)

// Maximal projection checks. They run while the parent is still unknown,
// so they only look down.

// ValidPPMax reports whether y can be a complete PP: it starts with a
// preposition, possibly behind an adverb.
func ValidPPMax(c *chart.Chart, y *chart.Node) bool {
	if le := c.LeftmostEntry(y); le != nil && le.Feature == feature.Preposition {
		return true
	}
	first, second := c.First(y), c.Second(y)
	if first != nil && first.Feature == feature.Adverb && second != nil && second.Feature == feature.PP {
		return ValidPPMax(c, second)
	}
	return false
}

// ValidNPMax rejects NPs opening with a conjunction and bare pronouns that
// cannot stand as a noun phrase.
func ValidNPMax(c *chart.Chart, x *chart.Node) bool {
	if le := c.LeftmostEntry(x); le != nil && le.Feature == feature.Conjunction {
		return false
	}
	if isBarePronoun(c, x) && !c.LeftmostEntry(x).Has(TagNPPronoun) {
		return false
	}
	return true
}

// ValidAdjPMax rejects ADJPs opening with a conjunction.
func ValidAdjPMax(c *chart.Chart, e *chart.Node) bool {
	le := c.LeftmostEntry(e)
	return le == nil || le.Feature != feature.Conjunction
}

// ValidVPMax checks every verb group inside w.
func ValidVPMax(c *chart.Chart, w *chart.Node) bool {
	if w == nil {
		return true
	}
	if c.IsVerbGroup(w) {
		return compoundTenseOK(c, w, true)
	}
	return ValidVPMax(c, c.First(w)) && ValidVPMax(c, c.Second(w))
}

// BadVP reports a verb group whose tense cannot be resolved.
func BadVP(c *chart.Chart, n *chart.Node) bool {
	return n != nil && c.IsVerbGroup(n) && !compoundTenseOK(c, n, false)
}

func verbGroup(c *chart.Chart, w *chart.Node) []*chart.Node {
	var out []*chart.Node
	for w != nil && w.Feature == feature.VP {
		first, second := c.First(w), c.Second(w)
		if second != nil {
			out = append(out, second)
			w = first
			continue
		}
		if first != nil && first.Feature == feature.Verb {
			out = append(out, first)
		}
		break
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// compoundTenseOK accepts a chain of auxiliaries ending in a main verb with
// a tense. At the top of a VP the main verb must not be a bare auxiliary.
func compoundTenseOK(c *chart.Chart, w *chart.Node, top bool) bool {
	verbs := verbGroup(c, w)
	if len(verbs) == 0 {
		return false
	}
	for _, v := range verbs[:len(verbs)-1] {
		if !v.Lex.Has(TagAuxiliary) {
			return false
		}
	}
	main := verbs[len(verbs)-1].Lex
	if main == nil {
		return false
	}
	if main.Inflection.Tense == "" {
		return false
	}
	return !top || !main.Has(TagAuxiliaryOnly)
}

// CountArguments walks the complement spine of pn and counts NP and PP
// arguments. It fails when a limit is exceeded or the spine is not a
// well-formed argument tree.
func CountArguments(c *chart.Chart, pn *chart.Node, maxNPs, maxPPs, maxTotal int) (nps, pps int, ok bool) {
	if pn == nil {
		return 0, 0, false
	}
	constit := pn.Feature
	for pn != nil {
		first, second := c.First(pn), c.Second(pn)
		switch {
		case first != nil && first.Feature == constit && second != nil && second.Feature == feature.PP:
			// NP arguments precede PP arguments; the walk sees them in reverse.
			if nps > 0 {
				return nps, pps, false
			}
			pps++
			if pps > maxPPs || pps+nps > maxTotal {
				return nps, pps, false
			}
			pn = first
		case first != nil && first.Feature == constit && second != nil && second.Feature == feature.NP:
			if constit == feature.NP || constit == feature.AdjP {
				return nps, pps, false
			}
			nps++
			if nps > maxNPs || pps+nps > maxTotal {
				return nps, pps, false
			}
			pn = first
		case first != nil && first.Feature == feature.VP && second != nil && second.Feature == feature.Expletive:
			pn = first
		case constit == feature.VP && c.IsVerbGroup(pn):
			return nps, pps, true
		case constit != feature.NP && first != nil && first.Feature == feature.Adverb &&
			second != nil && second.Feature == constit:
			return nps, pps, false
		case constit != feature.NP && first != nil && first.Feature == constit &&
			second != nil && second.Feature == feature.Adverb:
			return nps, pps, false
		case pn.Feature == feature.AdjP, pn.Feature == feature.NP:
			return nps, pps, true
		default:
			return nps, pps, false
		}
	}
	return nps, pps, true
}

// ArgRestr reports whether pn is a well-formed argument tree within limits.
func ArgRestr(c *chart.Chart, pn *chart.Node, maxNPs, maxPPs, maxTotal int) bool {
	_, _, ok := CountArguments(c, pn, maxNPs, maxPPs, maxTotal)
	return ok
}

// Argument limits for complete phrases.
var (
	adjPMax = [3]int{0, 2, 2}
	vpMax   = [3]int{2, 3, 4}
	npMax   = [3]int{0, 4, 4}
)

// ScoreCount degrades linearly from ScoreMax at cnt <= max to ScoreMin at
// cnt >= min.
func ScoreCount(cnt, max, min int) float64 {
	if cnt <= max {
		return ScoreMax
	}
	if cnt >= min {
		return ScoreMin
	}
	return ScoreMax - float64(cnt-max)/float64(min-max)
}

// barrier reports whether pn is a maximal projection relative to parent.
func barrier(pn, parent *chart.Node) bool {
	return parent != nil && pn.Feature.IsPhrase() && pn.Feature != parent.Feature
}

// SatisfiesCase checks that every case-marked word governed through pn
// carries the given case. Coordinated NPs and anything behind a phrase
// boundary pass.
func SatisfiesCase(c *chart.Chart, pn *chart.Node, caseTag string) bool {
	return satisfiesCase(c, pn, nil, caseTag)
}

func satisfiesCase(c *chart.Chart, pn, parent *chart.Node, caseTag string) bool {
	if pn == nil {
		return true
	}
	if barrier(pn, parent) {
		return true
	}
	if pn.Leaf() {
		return entryHasCase(pn.Lex, caseTag)
	}
	if isCoordinatedNP(c, pn) {
		return true
	}
	return satisfiesCase(c, c.First(pn), pn, caseTag) && satisfiesCase(c, c.Second(pn), pn, caseTag)
}

func entryHasCase(le *lexicon.Entry, caseTag string) bool {
	if le == nil {
		return true
	}
	if !le.Has(TagCaseSubj) && !le.Has(TagCaseObj) && !le.Has(TagCaseIobj) {
		return true
	}
	return le.Has(caseTag)
}

// isCoordinatedNP matches [X [X] [X [K] [X]]].
func isCoordinatedNP(c *chart.Chart, x *chart.Node) bool {
	first, second := c.First(x), c.Second(x)
	if x.Feature != feature.NP || first == nil || first.Feature != feature.NP ||
		second == nil || second.Feature != feature.NP {
		return false
	}
	k, rest := c.First(second), c.Second(second)
	return k != nil && k.Feature == feature.Conjunction && rest != nil && rest.Feature == feature.NP
}
