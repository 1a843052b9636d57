// Package filter decides whether a grammar rule may fire on one or two
// chart nodes, and with what score.
//
// The Evaluator consults the grammar table, then a Set of grammaticality
// filters keyed by (left, right, target) feature triples. A zero score is a
// veto. Filters must be pure: they read the chart and return a number.
package filter

import (
	"sort"

	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/grammar"
)

// Score bounds.
const (
	ScoreMin = 0.0
	ScoreMax = 1.0
)

// Env is what a filter may look at besides its arguments.
type Env struct {
	Chart    *chart.Chart
	Language string
}

// English reports whether the parse language is English, the default.
func (e *Env) English() bool {
	return e.Language == "" || e.Language == "en"
}

// French reports whether the parse language is French.
func (e *Env) French() bool {
	return e.Language == "fr"
}

// PairFilter scores a binary rule application.
type PairFilter func(env *Env, left, right *chart.Node) float64

// SingletonFilter scores a unary rule application.
type SingletonFilter func(env *Env, child *chart.Node) float64

// ChildCheck vetoes a child before any rule is consulted.
type ChildCheck func(env *Env, child *chart.Node, target feature.Feature) bool

// Triple names a filter slot. Right is feature.Null for singleton slots.
type Triple struct {
	Left   feature.Feature `json:"left"`
	Right  feature.Feature `json:"right"`
	Target feature.Feature `json:"target"`
}

func (t Triple) String() string {
	if t.Right == feature.Null {
		return string([]byte{t.Left.Code(), '_', t.Target.Code()})
	}
	return string([]byte{t.Left.Code(), t.Right.Code(), '_', t.Target.Code()})
}

// Set is a swappable collection of filters.
type Set struct {
	Name string

	// Valence turns on the VP object-count restriction.
	Valence bool

	pairs      map[Triple]PairFilter
	singletons map[Triple]SingletonFilter
	checks     []ChildCheck
}

// NewSet returns an empty set. Every rule the table allows scores 1.
func NewSet(name string) *Set {
	return &Set{
		Name:       name,
		pairs:      make(map[Triple]PairFilter),
		singletons: make(map[Triple]SingletonFilter),
	}
}

// Permissive is the empty set.
func Permissive() *Set {
	return NewSet("permissive")
}

// Pair registers a binary filter for left+right -> target.
func (s *Set) Pair(left, right, target feature.Feature, fn PairFilter) *Set {
	s.pairs[Triple{left, right, target}] = fn
	return s
}

// Singleton registers a unary filter for child -> target.
func (s *Set) Singleton(child, target feature.Feature, fn SingletonFilter) *Set {
	s.singletons[Triple{child, feature.Null, target}] = fn
	return s
}

// Check adds a child predicate.
func (s *Set) Check(fn ChildCheck) *Set {
	s.checks = append(s.checks, fn)
	return s
}

// Triples lists every registered slot in feature order.
func (s *Set) Triples() []Triple {
	out := make([]Triple, 0, len(s.pairs)+len(s.singletons))
	for t := range s.pairs {
		out = append(out, t)
	}
	for t := range s.singletons {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		if a.Right != b.Right {
			return a.Right < b.Right
		}
		return a.Target < b.Target
	})
	return out
}

// Len is the number of registered filters.
func (s *Set) Len() int {
	return len(s.pairs) + len(s.singletons)
}

// ScoreCombine folds a filter score with a child score.
type ScoreCombine func(a, b float64) float64

func validScore(s float64) bool {
	return s >= 0 && s <= 2
}

// Product multiplies scores. Out-of-range input is logged and yields
// ScoreMax.
func Product(a, b float64) float64 {
	if !validScore(a) || !validScore(b) {
		logger.Warnw("Invalid score combined", "a", a, "b", b)
		return ScoreMax
	}
	return a * b
}

// Mode restricts which pair rules may fire.
type Mode int

const (
	Normal Mode = iota
	// CompoundNounOnly admits only NP+NP -> NP pairs.
	CompoundNounOnly
)

// Breakpoint matches one rule attempt for debugging.
type Breakpoint struct {
	Left   chart.NodeID    `json:"left"`
	Right  chart.NodeID    `json:"right"`
	Target feature.Feature `json:"target"`
}

// Evaluator scores rule applications.
type Evaluator struct {
	Table    *grammar.Table
	Filters  *Set
	Combine  ScoreCombine
	Mode     Mode
	Language string

	Breakpoints  []Breakpoint
	OnBreakpoint func(Breakpoint)
}

// NewEvaluator returns an evaluator using the product combinator.
func NewEvaluator(table *grammar.Table, filters *Set) *Evaluator {
	if filters == nil {
		filters = Permissive()
	}
	return &Evaluator{Table: table, Filters: filters, Combine: Product}
}

func (e *Evaluator) breakpoint(left, right chart.NodeID, k feature.Feature) {
	for _, bp := range e.Breakpoints {
		if bp.Left == left && bp.Right == right && (bp.Target == feature.Null || bp.Target == k) {
			if e.OnBreakpoint != nil {
				e.OnBreakpoint(bp)
			} else {
				logger.Warnw("Rule breakpoint reached",
					"left", int(left),
					"right", int(right),
					logger.FieldFeature, k.String())
			}
			return
		}
	}
}

// Score returns the score for building k from left and, when right is not
// chart.None, right. Zero means the rule does not fire.
func (e *Evaluator) Score(c *chart.Chart, left, right chart.NodeID, k feature.Feature) float64 {
	pn1 := c.Node(left)
	if pn1 == nil {
		logger.Warnw("Rule attempted on missing node", "left", int(left))
		return 0
	}
	pn2 := c.Node(right)
	if right != chart.None && pn2 == nil {
		logger.Warnw("Rule attempted on missing node", "right", int(right))
		return 0
	}

	if len(e.Breakpoints) > 0 {
		e.breakpoint(left, right, k)
	}

	set := e.Filters
	if set == nil {
		set = Permissive()
	}
	combine := e.Combine
	if combine == nil {
		combine = Product
	}
	env := &Env{Chart: c, Language: e.Language}

	for _, check := range set.checks {
		if !check(env, pn1, k) {
			return 0
		}
		if pn2 != nil && !check(env, pn2, k) {
			return 0
		}
	}

	if pn2 == nil {
		if !e.Table.Fires(pn1.Feature, feature.Null, k) {
			return 0
		}
		s := ScoreMax
		if fn, ok := set.singletons[Triple{pn1.Feature, feature.Null, k}]; ok {
			s = fn(env, pn1)
		}
		if s <= ScoreMin {
			return 0
		}
		return combine(s, pn1.Score)
	}

	if !e.Table.Fires(pn1.Feature, pn2.Feature, k) {
		return 0
	}
	if e.Mode == CompoundNounOnly &&
		(pn1.Feature != feature.NP || pn2.Feature != feature.NP || k != feature.NP) {
		return 0
	}
	if k == feature.VP && set.Valence && vpRestricted(c, pn1, pn2) {
		return 0
	}
	s := ScoreMax
	if fn, ok := set.pairs[Triple{pn1.Feature, pn2.Feature, k}]; ok {
		s = fn(env, pn1, pn2)
	}
	if s <= ScoreMin {
		return 0
	}
	return combine(combine(s, pn1.Score), pn2.Score)
}

// vpRestricted rejects VPs with too many complements.
func vpRestricted(c *chart.Chart, w1, w2 *chart.Node) bool {
	obj, iobj := c.CountVPObjects(w1, w2)
	return obj > 2 || iobj > 4 || (iobj > 0 && obj > 1)
}
