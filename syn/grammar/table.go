// Package grammar holds the compiled compatibility table that decides which
// (left, right, target) combinations the chart parser may build.
//
// A Table is filled once, either from a bracketed corpus (CompileCorpus) or
// from a saved rule set (LoadTable), and is read-only afterwards. Callers that
// need to swap grammars at runtime replace the whole *Table.
package grammar

import (
	"fmt"
	"io"

	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/feature"
)

// Table counts attested local rule instances, indexed by
// left child, right child (feature.Null for unary rules) and parent.
type Table struct {
	counts [feature.Count][feature.Count][feature.Count]int
}

// Rule is one non-zero cell of a Table.
type Rule struct {
	Left   feature.Feature `json:"left"`
	Right  feature.Feature `json:"right"`
	Target feature.Feature `json:"target"`
	Count  int             `json:"count"`
}

// Unary reports whether the rule has a single child.
func (r Rule) Unary() bool {
	return r.Right == feature.Null
}

// String renders the rule as "Z <- X W 17", or "X <- H 3" when unary.
func (r Rule) String() string {
	if r.Unary() {
		return fmt.Sprintf("%c <- %c %d", r.Target.Code(), r.Left.Code(), r.Count)
	}
	return fmt.Sprintf("%c <- %c %c %d", r.Target.Code(), r.Left.Code(), r.Right.Code(), r.Count)
}

// New returns an empty table; nothing fires until trained.
func New() *Table {
	return &Table{}
}

func valid(fs ...feature.Feature) bool {
	for _, f := range fs {
		if !f.Valid() {
			return false
		}
	}
	return true
}

// Train records one observation of target <- left [right].
func (t *Table) Train(left, right, target feature.Feature) {
	if !valid(left, right, target) {
		logger.Warnw("Skipping grammar observation with invalid feature",
			"left", int(left), "right", int(right), "target", int(target))
		return
	}
	t.counts[left][right][target]++
}

// Set overwrites a cell, used when restoring a saved table.
func (t *Table) Set(left, right, target feature.Feature, count int) {
	if !valid(left, right, target) || count < 0 {
		logger.Warnw("Skipping malformed grammar rule",
			"left", int(left), "right", int(right), "target", int(target), "count", count)
		return
	}
	t.counts[left][right][target] = count
}

// Count returns the number of observations for a cell.
func (t *Table) Count(left, right, target feature.Feature) int {
	if t == nil || !valid(left, right, target) {
		return 0
	}
	return t.counts[left][right][target]
}

// Fires reports whether target is derivable from left (and right, unless Null).
func (t *Table) Fires(left, right, target feature.Feature) bool {
	return t.Count(left, right, target) > 0
}

// Merge adds every count of other into t.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for i := range other.counts {
		for j := range other.counts[i] {
			for k, n := range other.counts[i][j] {
				t.counts[i][j][k] += n
			}
		}
	}
}

// Rules lists the non-zero cells in left, right, target index order.
func (t *Table) Rules() []Rule {
	var rules []Rule
	for i := range t.counts {
		for j := range t.counts[i] {
			for k, n := range t.counts[i][j] {
				if n > 0 {
					rules = append(rules, Rule{
						Left:   feature.Feature(i),
						Right:  feature.Feature(j),
						Target: feature.Feature(k),
						Count:  n,
					})
				}
			}
		}
	}
	return rules
}

// Len is the number of distinct rules.
func (t *Table) Len() int {
	n := 0
	for i := range t.counts {
		for j := range t.counts[i] {
			for _, c := range t.counts[i][j] {
				if c > 0 {
					n++
				}
			}
		}
	}
	return n
}

// WriteRules prints one rule per line.
func (t *Table) WriteRules(w io.Writer) error {
	for _, r := range t.Rules() {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
