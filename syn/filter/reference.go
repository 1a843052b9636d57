package filter

import (
	"strings"

	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/lexicon"
)

const groupingPunct = ",;:()[]\"-"

// Short names for the feature alphabet, as used in rule listings.
const (
	fA = feature.Adjective
	fB = feature.Adverb
	fD = feature.Determiner
	fE = feature.AdjP
	fH = feature.Pronoun
	fK = feature.Conjunction
	fR = feature.Preposition
	fV = feature.Verb
	fW = feature.VP
	fX = feature.NP
	fY = feature.PP
	fZ = feature.S
	f9 = feature.Element
)

// Reference returns the built-in filter set for English and French.
func Reference() *Set {
	s := NewSet("reference")
	s.Valence = true

	s.Check(notBadVP)
	s.Check(maximalChild)

	s.Singleton(fH, fX, filterH_X)
	s.Singleton(fZ, fX, filterZ_X)
	s.Singleton(fW, fZ, filterW_Z)

	s.Pair(fB, fE, fE, filterBE_E)
	s.Pair(fD, fE, fE, filterDE_E)
	s.Pair(fE, fY, fE, filterEY_E)
	s.Pair(fE, fE, fE, filterEE_E)
	s.Pair(fK, fE, fE, filterKE_E)

	s.Pair(fW, fE, fW, filterWE_W)
	s.Pair(fW, fY, fW, filterWY_W)
	s.Pair(fW, fV, fW, filterWV_W)
	s.Pair(fW, fX, fW, filterWX_W)
	s.Pair(fW, fH, fW, filterWH_W)
	s.Pair(fH, fW, fW, filterHW_W)
	s.Pair(fB, fW, fW, func(env *Env, b, w *chart.Node) float64 { return adverbVP(env, b, w, true) })
	s.Pair(fW, fB, fW, func(env *Env, w, b *chart.Node) float64 { return adverbVP(env, b, w, false) })

	s.Pair(fD, fX, fX, filterDX_X)
	s.Pair(fE, fX, fX, filterEX_X)
	s.Pair(fX, fE, fX, filterXE_X)
	s.Pair(fK, fX, fX, filterKX_X)
	s.Pair(fX, fY, fX, filterXY_X)
	s.Pair(fX, fZ, fX, filterXZ_X)
	s.Pair(fX, fW, fX, filterXW_X)
	s.Pair(fX, fX, fX, filterXX_X)
	s.Pair(fX, f9, fX, filterX9_X)

	s.Pair(fK, fY, fY, filterKY_Y)
	s.Pair(fR, fX, fY, filterRX_Y)
	s.Pair(fR, fB, fY, filterRB_Y)
	s.Pair(fY, fY, fY, filterYY_Y)

	s.Pair(fY, fZ, fZ, filterYZ_Z)
	s.Pair(fX, fW, fZ, filterXW_Z)
	s.Pair(fX, fE, fZ, filterXE_Z)
	s.Pair(fH, fX, fZ, filterHX_Z)
	s.Pair(fZ, fZ, fZ, filterZZ_Z)
	s.Pair(fX, fZ, fZ, filterXZ_Z)
	s.Pair(fE, fW, fZ, filterEW_Z)
	s.Pair(fE, fZ, fZ, filterEZ_Z)
	s.Pair(fB, fZ, fZ, filterBZ_Z)
	s.Pair(fZ, fB, fZ, filterZB_Z)

	return s
}

// Child checks.

func notBadVP(env *Env, n *chart.Node, _ feature.Feature) bool {
	return !BadVP(env.Chart, n)
}

// maximalChild requires a phrase used inside a different category to be a
// complete projection.
func maximalChild(env *Env, n *chart.Node, k feature.Feature) bool {
	if n.Feature == k {
		return true
	}
	switch n.Feature {
	case feature.NP:
		return ValidNPMax(env.Chart, n)
	case feature.PP:
		return ValidPPMax(env.Chart, n)
	case feature.VP:
		return ValidVPMax(env.Chart, n)
	case feature.AdjP:
		return ValidAdjPMax(env.Chart, n)
	}
	return true
}

// Tree shape helpers.

func isBarePronoun(c *chart.Chart, x *chart.Node) bool {
	first := c.First(x)
	return first != nil && first.Feature == feature.Pronoun && x.Right == chart.None
}

func firstIs(c *chart.Chart, n *chart.Node, f feature.Feature) bool {
	first := c.First(n)
	return first != nil && first.Feature == f
}

func secondIs(c *chart.Chart, n *chart.Node, f feature.Feature) bool {
	second := c.Second(n)
	return second != nil && second.Feature == f
}

// isXE matches [Z [X] [E]], an elliptical sentence.
func isXE(c *chart.Chart, z *chart.Node) bool {
	return firstIs(c, z, feature.NP) && secondIs(c, z, feature.AdjP)
}

func isSimpleAdjP(c *chart.Chart, e *chart.Node) bool {
	return firstIs(c, e, feature.Adjective) && e.Right == chart.None
}

func entryFeature(le *lexicon.Entry) feature.Feature {
	if le == nil {
		return feature.Null
	}
	return le.Feature
}

// classIn reports whether any word under n carries tag.
func classIn(c *chart.Chart, n *chart.Node, tag string) bool {
	if n == nil {
		return false
	}
	if n.Leaf() {
		return n.Lex.Has(tag)
	}
	return classIn(c, c.First(n), tag) || classIn(c, c.Second(n), tag)
}

// endPunct is the punctuation following the last word of n.
func endPunct(c *chart.Chart, n *chart.Node) string {
	if n == nil {
		return ""
	}
	if n.Leaf() {
		if n.Lex == nil {
			return ""
		}
		return n.Lex.Punct
	}
	if p := endPunct(c, c.Second(n)); p != "" {
		return p
	}
	return endPunct(c, c.First(n))
}

func endGroupingPunct(c *chart.Chart, n *chart.Node) bool {
	return strings.ContainsAny(endPunct(c, n), groupingPunct)
}

func commaAfter(c *chart.Chart, n *chart.Node) bool {
	return strings.Contains(endPunct(c, n), ",")
}

func properNP(c *chart.Chart, x *chart.Node) bool {
	first := c.First(x)
	if x.Feature != feature.NP || first == nil || first.Feature != feature.Noun || x.Right != chart.None || !first.Leaf() {
		return false
	}
	switch first.Type {
	case lexicon.Name, lexicon.OrgName, lexicon.Polity, lexicon.TelNo,
		lexicon.MediaObj, lexicon.Product, lexicon.Number:
		return true
	}
	return first.Lex.Has(TagProper)
}

func ruleAppCount(c *chart.Chart, n *chart.Node, left, right, target feature.Feature) int {
	if n == nil || n.Feature != target || !firstIs(c, n, left) || !secondIs(c, n, right) {
		return 0
	}
	return 1 + ruleAppCount(c, c.First(n), left, right, target) + ruleAppCount(c, c.Second(n), left, right, target)
}

func verbPhrasePronoun(env *Env, h *chart.Node) bool {
	return env.French() && env.Chart.LeftmostEntry(h).Has(TagVPPronoun)
}

// onlyRelative matches [W [H who] [W ...]]: a VP usable only inside a
// relative clause.
func onlyRelative(env *Env, w *chart.Node) bool {
	c := env.Chart
	return firstIs(c, w, feature.Pronoun) && secondIs(c, w, feature.VP) && !verbPhrasePronoun(env, c.First(w))
}

func rightmostIsPronoun(c *chart.Chart, w *chart.Node) bool {
	return entryFeature(c.RightmostEntry(w)) == feature.Pronoun
}

func invertibleVerb(v *chart.Node) bool {
	return v != nil && v.Lex.Has(TagInvertible)
}

func pronounVerbInversion(env *Env, v, h *chart.Node) bool {
	if !env.Chart.LeftmostEntry(h).Has(TagSubjectPronoun) {
		return false
	}
	if env.English() {
		return invertibleVerb(v)
	}
	return true
}

// npVerbInversion covers "Is he happy?": w is a bare invertible verb and x
// a subject.
func npVerbInversion(env *Env, w, x *chart.Node) bool {
	c := env.Chart
	if env.French() {
		return true
	}
	if !env.English() {
		return false
	}
	if !firstIs(c, w, feature.Verb) || w.Right != chart.None || !invertibleVerb(c.First(w)) {
		return false
	}
	var h *chart.Node
	switch {
	case x.Feature == feature.Pronoun:
		h = x
	case isBarePronoun(c, x):
		h = c.First(x)
	}
	return h == nil || c.LeftmostEntry(h).Has(TagSubjectPronoun)
}

func npVerbInversionVP(env *Env, w *chart.Node) bool {
	c := env.Chart
	first, second := c.First(w), c.Second(w)
	return first != nil && first.Feature == feature.VP && second != nil &&
		(second.Feature == feature.NP || second.Feature == feature.Pronoun) &&
		npVerbInversion(env, first, second)
}

func inversion(env *Env, w *chart.Node) bool {
	c := env.Chart
	for w != nil && firstIs(c, w, feature.VP) {
		if secondIs(c, w, feature.NP) && npVerbInversion(env, c.First(w), c.Second(w)) {
			return true
		}
		w = c.First(w)
	}
	return false
}

func completeSentence(env *Env, z *chart.Node) bool {
	c := env.Chart
	if firstIs(c, z, feature.NP) && secondIs(c, z, feature.VP) {
		return true
	}
	return firstIs(c, z, feature.VP) && z.Right == chart.None && inversion(env, c.First(z))
}

func isGenitiveNP(env *Env, n *chart.Node) bool {
	c := env.Chart
	return env.English() && firstIs(c, n, feature.NP) && secondIs(c, n, feature.Element) &&
		c.LeftmostEntry(c.Second(n)).Has(TagGenitive)
}

func isPrepRelative(c *chart.Chart, y *chart.Node) bool {
	x := c.Second(y)
	return firstIs(c, y, feature.Preposition) && x != nil && x.Feature == feature.NP &&
		firstIs(c, x, feature.Pronoun) && c.LeftmostEntry(c.First(x)).Has(TagRelIobjPrep)
}

func nonNominalRelative(c *chart.Chart, z *chart.Node) bool {
	if !secondIs(c, z, feature.S) {
		return false
	}
	if firstIs(c, z, feature.Pronoun) && c.LeftmostEntry(z).Has(TagRelObj) {
		return true
	}
	return firstIs(c, z, feature.PP) && isPrepRelative(c, c.First(z))
}

// advShiftable reports whether the leftmost adverb of x could attach to the
// VP w on its left instead. Such parses are left to the VP rules.
func advShiftable(env *Env, w, x *chart.Node) bool {
	c := env.Chart
	adv := c.Leftmost(x)
	if adv == nil || adv.Feature != feature.Adverb {
		return false
	}
	if adverbVP(env, adv, w, false) == 0 {
		return false
	}
	f := entryFeature(c.RightmostEntry(w))
	return f == feature.Verb || f == feature.Adverb
}

// ADJP.

func filterEY_E(env *Env, e, y *chart.Node) float64 {
	if !ArgRestr(env.Chart, e, adjPMax[0], adjPMax[1]-1, adjPMax[2]-1) {
		return 0
	}
	return 1
}

func filterBE_E(env *Env, b, e *chart.Node) float64 {
	c := env.Chart
	if leaf := c.Leftmost(b); leaf != nil && leaf.Type == lexicon.TSRange {
		return 0
	}
	if c.Words(b) > 1 {
		return 0
	}
	if c.LeftmostEntry(b).Has(TagNoBE_E) {
		return 0
	}
	return 1
}

func filterDE_E(env *Env, d, e *chart.Node) float64 {
	c := env.Chart
	if env.French() && firstIs(c, e, feature.Adverb) && secondIs(c, e, feature.AdjP) &&
		c.First(e).Lex.Has(TagSuperlative) {
		return 1
	}
	return 0
}

func filterEE_E(env *Env, e1, e2 *chart.Node) float64 {
	if firstIs(env.Chart, e2, feature.Conjunction) {
		return 1
	}
	return 0
}

func filterKE_E(env *Env, k, e *chart.Node) float64 {
	c := env.Chart
	if !ValidAdjPMax(c, e) || !c.LeftmostEntry(k).Has(TagCoordinator) {
		return 0
	}
	return 1
}

// VP.

func adverbVP(env *Env, b, w *chart.Node, isBW bool) float64 {
	c := env.Chart
	if onlyRelative(env, w) {
		return 0
	}
	le := c.LeftmostEntry(b)
	if le == nil {
		return 1
	}
	if (isBW && le.Has(TagNoBW_W)) || (!isBW && le.Has(TagNoWB_W)) {
		return 0
	}
	npOrPP := c.FeatureIn(w, feature.NP) || c.FeatureIn(w, feature.PP)
	switch {
	case env.French():
		switch le.Word {
		case "pas":
			if npOrPP {
				return 0
			}
		case "ne":
			if !isBW {
				return 0
			}
			if firstIs(c, w, feature.Verb) && w.Right == chart.None {
				return 1
			}
			f := entryFeature(c.LeftmostEntry(w))
			if f != feature.Pronoun && f != feature.Adverb {
				return 0
			}
		default:
			if isBW {
				return 0
			}
		}
	case env.English():
		if le.Word == "not" && (isBW || !npOrPP) {
			return 0
		}
	}
	return 1
}

func filterWE_W(env *Env, w, e *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) {
		return 0
	}
	_, main := c.HeadVerbs(w)
	if main == nil || !main.Lex.Has(TagCopula) {
		return 0
	}
	if advShiftable(env, w, e) {
		return 0
	}
	return 1
}

func filterWY_W(env *Env, w, y *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) || rightmostIsPronoun(c, w) || advShiftable(env, w, y) {
		return 0
	}
	if !ArgRestr(c, w, vpMax[0], vpMax[1]-1, vpMax[2]-1) {
		return 0
	}
	score := ScoreMax
	if c.LeftmostEntry(y).Has(TagPrepOf) {
		score = 0.8
	}
	if !endGroupingPunct(c, w) {
		return Product(score, ScoreCount(c.Words(w), 8, 20))
	}
	return score
}

func filterWX_W(env *Env, w, x *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) || rightmostIsPronoun(c, w) {
		return 0
	}
	if !ArgRestr(c, w, vpMax[0]-1, 0, vpMax[2]-1) {
		return 0
	}
	if advShiftable(env, w, x) {
		return 0
	}
	if !endGroupingPunct(c, w) {
		return ScoreCount(c.Words(w), 8, 20)
	}
	return 1
}

func vpPronounOnly(env *Env, w, h *chart.Node) float64 {
	if !ArgRestr(env.Chart, w, 0, 0, 0) || !verbPhrasePronoun(env, h) {
		return 0
	}
	return 1
}

func filterWH_W(env *Env, w, h *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) {
		return 0
	}
	if firstIs(c, w, feature.Verb) && w.Right == chart.None && pronounVerbInversion(env, c.First(w), h) {
		return 1
	}
	return vpPronounOnly(env, w, h)
}

func filterHW_W(env *Env, h, w *chart.Node) float64 {
	if onlyRelative(env, w) {
		return 0
	}
	if env.Chart.LeftmostEntry(h).Has(TagRelSubj) {
		return 1
	}
	return vpPronounOnly(env, w, h)
}

func filterWV_W(env *Env, w, v *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) || c.FeatureIn(w, feature.NP) || c.FeatureIn(w, feature.PP) {
		return 0
	}
	return 1
}

// NP.

func filterDX_X(env *Env, d, x *chart.Node) float64 {
	c := env.Chart
	if c.FeatureIn(x, feature.Determiner) || firstIs(c, x, feature.S) {
		return 0
	}
	if c.FeatureIn(x, feature.VP) || c.FeatureIn(x, feature.PP) {
		return 0
	}
	return 1
}

func filterEX_X(env *Env, e, x *chart.Node) float64 {
	c := env.Chart
	if c.FeatureIn(e, feature.PP) || c.FeatureIn(x, feature.Determiner) {
		return 0
	}
	if firstIs(c, x, feature.AdjP) || isBarePronoun(c, x) {
		return 0
	}
	return 1
}

func filterXE_X(env *Env, x, e *chart.Node) float64 {
	return 1
}

func filterKX_X(env *Env, k, x *chart.Node) float64 {
	c := env.Chart
	if !ValidNPMax(c, x) || !c.LeftmostEntry(k).Has(TagCoordinator) {
		return 0
	}
	return 1
}

func filterXY_X(env *Env, x, y *chart.Node) float64 {
	c := env.Chart
	if !ValidNPMax(c, x) {
		return 0
	}
	if firstIs(c, x, feature.S) && !c.LeftmostEntry(c.First(x)).Has(TagSubordinating) {
		return 0
	}
	if !ArgRestr(c, x, npMax[0], npMax[1]-1, npMax[2]-1) {
		return 0
	}
	if c.FeatureIn(x, feature.S) || c.FeatureIn(x, feature.VP) {
		return 0.1
	}
	return 1
}

func filterXZ_X(env *Env, x, z *chart.Node) float64 {
	c := env.Chart
	if isXE(c, z) {
		return 0
	}
	if isBarePronoun(c, x) {
		le := c.LeftmostEntry(x)
		if le.Has(TagNominalRelObj) || le.Has(TagNominalRelIobj) {
			return 1
		}
	}
	if nonNominalRelative(c, z) && ValidNPMax(c, x) {
		return 1
	}
	return 0
}

func filterXW_X(env *Env, x, w *chart.Node) float64 {
	c := env.Chart
	if firstIs(c, w, feature.Pronoun) && secondIs(c, w, feature.VP) &&
		c.LeftmostEntry(c.First(w)).Has(TagRelSubj) {
		if endGroupingPunct(c, x) && !endGroupingPunct(c, w) {
			return 0.1
		}
		return 1
	}
	inner := c.First(x)
	if inner != nil && inner.Feature == feature.NP && x.Right == chart.None &&
		isBarePronoun(c, inner) && c.LeftmostEntry(inner).Has(TagNominalRelSubj) {
		return 1
	}
	return 0
}

// pronounAppositive is 0 for an illegal bare pronoun appositive, 2 for a
// legal one and 1 when x is not a bare pronoun.
func pronounAppositive(env *Env, x *chart.Node) int {
	c := env.Chart
	if !isBarePronoun(c, x) {
		return 1
	}
	if env.French() && c.LeftmostEntry(x).Has(TagDisjunctivePronoun) {
		return 2
	}
	return 0
}

func relativeLike(c *chart.Chart, x *chart.Node) bool {
	inner := c.First(x)
	return inner != nil && inner.Feature == feature.NP && firstIs(c, inner, feature.Pronoun)
}

func filterXX_X(env *Env, x1, x2 *chart.Node) float64 {
	c := env.Chart
	if firstIs(c, x2, feature.Conjunction) {
		return 1
	}
	if isGenitiveNP(env, x1) {
		return 1
	}
	pa1 := pronounAppositive(env, x1)
	pa2 := pronounAppositive(env, x2)
	if pa1 == 0 || pa2 == 0 {
		return 0
	}
	if relativeLike(c, x2) || relativeLike(c, x1) {
		return 0
	}
	// right branching only
	if ruleAppCount(c, x1, feature.NP, feature.NP, feature.NP) > 0 {
		return 0
	}
	if ruleAppCount(c, x2, feature.NP, feature.NP, feature.NP) >= 2 {
		return 0.1
	}
	if c.FeatureIn(x1, feature.S) {
		return 0
	}
	if properNP(c, x1) && properNP(c, x2) {
		return 0
	}
	len1, len2 := c.Terminals(x1), c.Terminals(x2)
	if pa1 != 2 && pa2 != 2 && len1 == 1 {
		if len2 == 1 {
			return 0
		}
		inner := c.First(x2)
		if inner != nil && inner.Feature == feature.NP && firstIs(c, inner, feature.Noun) {
			return 0
		}
	}
	if len1 >= 4 || len2 >= 4 {
		if !((endGroupingPunct(c, x1) || properNP(c, x1)) && (endGroupingPunct(c, x2) || properNP(c, x2))) {
			return 0.1
		}
	}
	return 1
}

func filterX9_X(env *Env, x, element *chart.Node) float64 {
	c := env.Chart
	if !env.English() || !ValidNPMax(c, x) || !c.LeftmostEntry(element).Has(TagGenitive) {
		return 0
	}
	return 1
}

// PP.

func presPartPrep(le *lexicon.Entry) bool {
	return le.Has(TagPrepTo) || le.Has(TagPrepAt) || le.Has(TagPrepFor) || le.Has(TagPrepToward)
}

func filterRX_Y(env *Env, r, x *chart.Node) float64 {
	c := env.Chart
	if !firstIs(c, x, feature.S) {
		if !SatisfiesCase(c, x, TagCaseIobj) {
			return 0
		}
		return 1
	}
	prep := c.LeftmostEntry(r)
	if env.French() {
		if prep.Has(TagPrepTo) || prep.Has(TagPrepOf) {
			return 1
		}
		return 0
	}
	v := c.Leftmost(x)
	if presPartPrep(prep) && v != nil && v.Lex != nil &&
		v.Lex.Inflection.Tense == lexicon.TensePresentParticiple {
		return 1
	}
	return 0
}

func filterRB_Y(env *Env, r, b *chart.Node) float64 {
	if leaf := env.Chart.Leftmost(b); leaf != nil && leaf.Type == lexicon.TSRange {
		return 1
	}
	return 0
}

func filterKY_Y(env *Env, k, y *chart.Node) float64 {
	if !env.Chart.LeftmostEntry(k).Has(TagAnd) {
		return 0
	}
	return 1
}

func filterYY_Y(env *Env, y1, y2 *chart.Node) float64 {
	if !env.Chart.LeftmostEntry(y2).Has(TagCoordinator) {
		return 0
	}
	return 1
}

// S.

func finiteTense(tense string) bool {
	return tense == lexicon.TensePresent || tense == lexicon.TensePast
}

// headNoun finds the noun or pronoun that governs agreement for x.
func headNoun(c *chart.Chart, x *chart.Node) *chart.Node {
	for x != nil && !x.Leaf() {
		first, second := c.First(x), c.Second(x)
		switch {
		case second == nil:
			x = first
		case first.Feature == feature.NP && second.Feature != feature.NP:
			x = first
		default:
			x = second
		}
	}
	if x == nil || (x.Feature != feature.Noun && x.Feature != feature.Pronoun) || x.Lex == nil {
		return nil
	}
	return x
}

func agrees(want, got string) bool {
	return want == "" || got == "" || want == got
}

func filterXW_Z(env *Env, x, w *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) {
		return 0
	}

	aux, _ := c.HeadVerbs(w)
	caseTag := TagCaseSubj
	if aux != nil && aux.Lex != nil && aux.Lex.Inflection.Tense != "" && !finiteTense(aux.Lex.Inflection.Tense) {
		caseTag = TagCaseObj
	}
	if !SatisfiesCase(c, x, caseTag) {
		return 0
	}

	// infinitive subject: [X [Z [W [V]]]]
	if z := c.First(x); z != nil && z.Feature == feature.S && x.Right == chart.None && z.Right == chart.None {
		if inner := c.First(z); inner != nil && inner.Feature == feature.VP && inner.Right == chart.None &&
			firstIs(c, inner, feature.Verb) {
			return 0.1
		}
	}

	if aux == nil || aux.Lex == nil {
		return 1
	}
	if aux.Lex.Inflection.Mood == MoodImperative {
		return 0.2
	}
	head := headNoun(c, x)
	if head == nil {
		return 1
	}
	if firstIs(c, x, feature.NP) && secondIs(c, x, feature.NP) && firstIs(c, c.Second(x), feature.Conjunction) {
		return 1
	}
	person := head.Lex.Inflection.Person
	if person == "" {
		person = "3"
	}
	if agrees(head.Lex.Inflection.Number, aux.Lex.Inflection.Number) &&
		agrees(person, aux.Lex.Inflection.Person) {
		return 1
	}
	if npVerbInversionVP(env, w) {
		return 1
	}
	return 0
}

func filterXE_Z(env *Env, x, e *chart.Node) float64 {
	return 1
}

func filterHX_Z(env *Env, h, x *chart.Node) float64 {
	if !env.Chart.LeftmostEntry(h).Has(TagObjInterrogative) {
		return 0
	}
	return 1
}

func filterZZ_Z(env *Env, z1, z2 *chart.Node) float64 {
	c := env.Chart
	if firstIs(c, z1, feature.Interjection) && z1.Right == chart.None {
		if commaAfter(c, z1) {
			return 1
		}
		return 0
	}
	if k := c.Leftmost(z1); k != nil && k.Feature == feature.Conjunction {
		if !sententialConjunction(k.Lex) || k.Lex.Has(TagClause2Only) {
			return 0
		}
		return 1
	}
	if k := c.Leftmost(z2); k != nil && k.Feature == feature.Conjunction {
		if !sententialConjunction(k.Lex) {
			return 0
		}
		return 1
	}
	if commaAfter(c, z1) && !(c.Words(z1) >= 5 && c.Words(z2) <= 1) {
		return 1
	}
	return 0
}

// sententialConjunction reports whether a conjunction may join clauses.
func sententialConjunction(le *lexicon.Entry) bool {
	return le.Has(TagCoordinator) || le.Has(TagSubordinating)
}

func filterXZ_Z(env *Env, x, z *chart.Node) float64 {
	c := env.Chart
	if isXE(c, z) {
		return 0
	}
	if !completeSentence(env, z) || x.Left == chart.None {
		return 0
	}
	if isBarePronoun(c, x) {
		if le := c.LeftmostEntry(x); le != nil &&
			(le.Has(TagInterrogativePron) || le.Has(TagRelObj) || le.Has(TagRelIobjPrep)) {
			return 1
		}
	}
	if c.LeftmostEntry(x).Has(TagInterrogativeDet) {
		return 1
	}
	return 0
}

func filterEW_Z(env *Env, e, w *chart.Node) float64 {
	if onlyRelative(env, w) || !classIn(env.Chart, e, TagInterrogativeAdverb) || !npVerbInversionVP(env, w) {
		return 0
	}
	return 1
}

func filterEZ_Z(env *Env, e, z *chart.Node) float64 {
	c := env.Chart
	if !commaAfter(c, e) || isSimpleAdjP(c, e) {
		return 0
	}
	return 1
}

func filterBZ_Z(env *Env, b, z *chart.Node) float64 {
	if env.Chart.LeftmostEntry(b).Has(TagNoBZ_Z) {
		return 0
	}
	return 1
}

func filterZB_Z(env *Env, z, b *chart.Node) float64 {
	c := env.Chart
	if k := c.Leftmost(z); k != nil && k.Feature == feature.Conjunction {
		return 0
	}
	if c.LeftmostEntry(b).Has(TagNoZB_Z) {
		return 0
	}
	return 1
}

func filterYZ_Z(env *Env, y, z *chart.Node) float64 {
	c := env.Chart
	if isXE(c, z) {
		return 0
	}
	if isPrepRelative(c, y) || commaAfter(c, y) {
		return 1
	}
	if (classIn(c, y, TagInterrogativePron) || classIn(c, y, TagInterrogativeDet)) && completeSentence(env, z) {
		return 1
	}
	return 0
}

// Singletons.

func filterH_X(env *Env, h *chart.Node) float64 {
	le := env.Chart.LeftmostEntry(h)
	if !le.Has(TagNPPronoun) && !le.Has(TagNominalRelPronoun) {
		return 0
	}
	return 1
}

func filterW_Z(env *Env, w *chart.Node) float64 {
	c := env.Chart
	if onlyRelative(env, w) {
		return 0
	}
	if c.RightmostEntry(w).Has(TagClitic) {
		if aux, _ := c.HeadVerbs(w); aux != nil && aux.Lex != nil && aux.Lex.Inflection.Mood != MoodImperative {
			return 0
		}
	}
	if le := c.LeftmostEntry(w); le != nil && le.Feature == feature.Preposition && !le.Has(TagPrepTo) {
		return 0
	}
	return 1
}

func filterZ_X(env *Env, z *chart.Node) float64 {
	c := env.Chart
	if isXE(c, z) {
		return 0
	}
	if le := c.LeftmostEntry(z); le != nil && le.Feature == feature.Conjunction && le.Has(TagSubordinating) {
		return 1
	}
	v := leftmostOf(c, z, feature.Verb)
	if v == nil || v.Lex == nil {
		return 0
	}
	switch v.Lex.Inflection.Tense {
	case lexicon.TenseInfinitive:
		return 1
	case lexicon.TensePresentParticiple:
		if env.English() {
			return 1
		}
	}
	return 0
}

func leftmostOf(c *chart.Chart, n *chart.Node, f feature.Feature) *chart.Node {
	if n == nil {
		return nil
	}
	if n.Feature == f {
		return n
	}
	if l := leftmostOf(c, c.First(n), f); l != nil {
		return l
	}
	return leftmostOf(c, c.Second(n), f)
}
