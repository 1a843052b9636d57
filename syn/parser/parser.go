// Package parser drives a chart to a fixpoint.
//
// A parse seeds a fresh chart with word-level tokens, then repeatedly pairs
// adjacent nodes through the rule evaluator until a pass creates nothing or
// the budget runs out. An S node covering the whole span that passes the
// top-level sentence check makes the parse SPANNED and is handed to the
// sentence hook. Otherwise the span is covered with maximal fragments.
package parser

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/metrics"
	"github.com/teranos/chartparse/pulse/budget"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/filter"
	"github.com/teranos/chartparse/syn/grammar"
	"github.com/teranos/chartparse/syn/lexicon"
)

// DefaultMaxFragmentTies caps the nodes handed over per fragment position.
const DefaultMaxFragmentTies = 15

// Config tunes a Parser. The zero value is usable.
type Config struct {
	// MaxPasses bounds iteration; <= 0 means until fixpoint.
	MaxPasses int
	// Budget bounds wall time per parse; <= 0 means unlimited.
	Budget          time.Duration
	MaxFragmentTies int
	Language        string
	// CompoundNounOnly admits only NP+NP -> NP pairs.
	CompoundNounOnly bool
	// StrictAdjacency ignores whitespace between nodes.
	StrictAdjacency bool
}

// SentenceHook receives each top-level sentence as it is created. Returning
// true means a semantic reading was produced for it. The chart is sealed for
// the duration of the call; the hook may read it but cannot add nodes or
// touch versus sets.
type SentenceHook interface {
	OnSentenceCompleted(c *chart.Chart, id chart.NodeID) bool
}

// HookFunc adapts a function to SentenceHook.
type HookFunc func(c *chart.Chart, id chart.NodeID) bool

func (f HookFunc) OnSentenceCompleted(c *chart.Chart, id chart.NodeID) bool {
	return f(c, id)
}

// Parser holds everything that is shared between parses. It is safe for
// concurrent use as long as the table and filter set are not mutated.
type Parser struct {
	table   *grammar.Table
	filters *filter.Set
	cfg     Config
	hook    SentenceHook
	combine filter.ScoreCombine
	dump    io.Writer
	log     *zap.SugaredLogger

	breakpoints  []filter.Breakpoint
	onBreakpoint func(filter.Breakpoint)
}

// Option configures a Parser.
type Option func(*Parser)

// WithConfig replaces the parser configuration.
func WithConfig(cfg Config) Option {
	return func(p *Parser) { p.cfg = cfg }
}

// WithHook sets the sentence hook.
func WithHook(h SentenceHook) Option {
	return func(p *Parser) { p.hook = h }
}

// WithCombine replaces the score combinator.
func WithCombine(fn filter.ScoreCombine) Option {
	return func(p *Parser) { p.combine = fn }
}

// WithDump writes the node dump of every parse that finds no sentence.
func WithDump(w io.Writer) Option {
	return func(p *Parser) { p.dump = w }
}

// WithBreakpoints installs rule breakpoints. fn may be nil.
func WithBreakpoints(fn func(filter.Breakpoint), bps ...filter.Breakpoint) Option {
	return func(p *Parser) {
		p.breakpoints = bps
		p.onBreakpoint = fn
	}
}

// WithLogger overrides the component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Parser) { p.log = log }
}

// New returns a parser over table. A nil filter set means every attested
// rule fires with score 1.
func New(table *grammar.Table, filters *filter.Set, opts ...Option) *Parser {
	if table == nil {
		table = grammar.New()
	}
	if filters == nil {
		filters = filter.Permissive()
	}
	p := &Parser{
		table:   table,
		filters: filters,
		combine: filter.Product,
		log:     logger.ComponentLogger("syn.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cfg.MaxFragmentTies <= 0 {
		p.cfg.MaxFragmentTies = DefaultMaxFragmentTies
	}
	return p
}

// Config returns the effective configuration.
func (p *Parser) Config() Config {
	return p.cfg
}

// Table returns the grammar table in use.
func (p *Parser) Table() *grammar.Table {
	return p.table
}

// Request is one parse.
type Request struct {
	// Text is the source the token spans index into. Optional.
	Text   string
	Tokens []lexicon.Token
	// Span is the requested range; nil means all of Text, or the extent of
	// Tokens when Text is empty.
	Span *chart.Span
	// Budget is polled once per pass in addition to the configured limits.
	Budget   budget.Token
	Consumer FragmentConsumer
}

func (p *Parser) evaluator() *filter.Evaluator {
	ev := filter.NewEvaluator(p.table, p.filters)
	ev.Combine = p.combine
	ev.Language = p.cfg.Language
	if p.cfg.CompoundNounOnly {
		ev.Mode = filter.CompoundNounOnly
	}
	ev.Breakpoints = p.breakpoints
	ev.OnBreakpoint = p.onBreakpoint
	return ev
}

func requestedSpan(req Request) (chart.Span, error) {
	if req.Span != nil {
		if !req.Span.Valid() {
			return chart.Span{}, errors.WithDetailf(
				errors.Wrapf(errors.ErrInvalidSpan, "requested span %s", req.Span),
				"lower must be non-negative and not above upper")
		}
		if req.Text != "" && req.Span.Upper >= len(req.Text) {
			return chart.Span{}, errors.Wrapf(errors.ErrInvalidSpan,
				"requested span %s exceeds text of %d bytes", req.Span, len(req.Text))
		}
		return *req.Span, nil
	}
	if req.Text != "" {
		return chart.Span{Lower: 0, Upper: len(req.Text) - 1}, nil
	}
	if len(req.Tokens) == 0 {
		return chart.Span{}, errors.Wrap(errors.ErrInvalidSpan, "nothing to parse")
	}
	s := chart.Span{Lower: req.Tokens[0].Lower, Upper: req.Tokens[0].Upper}
	for _, tok := range req.Tokens[1:] {
		s.Lower = min(s.Lower, tok.Lower)
		s.Upper = max(s.Upper, tok.Upper)
	}
	if !s.Valid() {
		return chart.Span{}, errors.Wrapf(errors.ErrInvalidSpan, "token extent %s", s)
	}
	return s, nil
}

// run is the state of one parse.
type run struct {
	p      *Parser
	c      *chart.Chart
	ev     *filter.Evaluator
	result *Result
}

// Parse runs one parse to completion. The only error is an unusable span;
// everything else degrades to fragments.
func (p *Parser) Parse(ctx context.Context, req Request) (*Result, error) {
	requested, err := requestedSpan(req)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	c := chart.New(req.Text, requested)
	c.SetStrictAdjacency(p.cfg.StrictAdjacency)

	r := &run{
		p:  p,
		c:  c,
		ev: p.evaluator(),
		result: &Result{
			Requested: requested,
			Chart:     c,
		},
	}

	r.seed(req.Tokens)

	tok := budget.Any(
		req.Budget,
		budget.Steps(p.cfg.MaxPasses),
		budget.Deadline(p.cfg.Budget),
		budget.Context(ctx),
	)
	r.iterate(tok)
	r.finish(req.Consumer)

	r.result.Elapsed = time.Since(start)
	r.observe()
	return r.result, nil
}

// seed copies word-level tokens starting inside the requested range and
// narrows the chart span to what they cover.
func (r *run) seed(tokens []lexicon.Token) {
	req := r.result.Requested
	seeded := chart.Span{Lower: -1, Upper: -1}
	for _, tok := range tokens {
		if !tok.Type.WordLevel() || tok.Lower < req.Lower || tok.Lower > req.Upper {
			continue
		}
		if r.c.AddLeaf(tok) == chart.None {
			continue
		}
		if seeded.Lower < 0 || tok.Lower < seeded.Lower {
			seeded.Lower = tok.Lower
		}
		seeded.Upper = max(seeded.Upper, tok.Upper)
	}
	r.result.State = Seeded

	if seeded.Lower < 0 {
		r.result.Span = req
		return
	}
	r.c.SetSpan(seeded)
	r.result.Span = seeded
	r.result.Untranslated = r.margins(req, seeded)
}

// margins reports the parts of req outside seeded that hold more than
// whitespace.
func (r *run) margins(req, seeded chart.Span) []chart.Span {
	var out []chart.Span
	if seeded.Lower > req.Lower {
		out = r.appendMargin(out, chart.Span{Lower: req.Lower, Upper: seeded.Lower - 1})
	}
	if seeded.Upper < req.Upper {
		out = r.appendMargin(out, chart.Span{Lower: seeded.Upper + 1, Upper: req.Upper})
	}
	return out
}

func (r *run) appendMargin(out []chart.Span, s chart.Span) []chart.Span {
	text := r.c.Text()
	if text != "" && s.Upper < len(text) && strings.TrimSpace(text[s.Lower:s.Upper+1]) == "" {
		return out
	}
	return append(out, s)
}

func (r *run) iterate(tok budget.Token) {
	r.result.State = Iterating
	for {
		if tok.Stop() {
			r.result.BudgetStopped = true
			r.p.log.Debugw("Parse budget exhausted",
				logger.FieldPasses, r.result.Passes,
				logger.FieldNodes, r.c.Len())
			break
		}
		r.result.Passes++
		if !r.pass() {
			break
		}
	}
	r.result.State = Stable
}

// pass runs once over the nodes that existed when it started and reports
// whether anything was created.
func (r *run) pass() bool {
	snapshot := r.c.Len()
	changed := false

	for i := 0; i < snapshot; i++ {
		id := chart.NodeID(i)
		n := r.c.Node(id)

		if !n.SingletonsApplied {
			n.SingletonsApplied = true
			for _, k := range feature.Targets() {
				if r.c.InUnaryChain(id, k) {
					continue
				}
				if s := r.ev.Score(r.c, id, chart.None, k); s > 0 {
					if r.create(k, id, chart.None, n.Span, s) {
						changed = true
					}
				}
			}
		}

		for _, q := range r.c.RightNeighbors(id, snapshot) {
			if r.pair(id, q) {
				changed = true
			}
		}
		for _, q := range r.c.LeftNeighbors(id, snapshot) {
			if r.pair(q, id) {
				changed = true
			}
		}
	}
	return changed
}

// pair tries every target over (left, right) once.
func (r *run) pair(left, right chart.NodeID) bool {
	if r.c.AlreadyAttempted(left, right) {
		return false
	}
	r.c.MarkAttempted(left, right)

	span := chart.Span{Lower: r.c.Node(left).Span.Lower, Upper: r.c.Node(right).Span.Upper}
	created := false
	for _, k := range feature.Targets() {
		if s := r.ev.Score(r.c, left, right, k); s > 0 {
			if r.create(k, left, right, span, s) {
				created = true
			}
		}
	}
	return created
}

func (r *run) create(k feature.Feature, left, right chart.NodeID, span chart.Span, score float64) bool {
	id := r.c.Create(k, left, right, span, score)
	if id == chart.None {
		return false
	}
	if k == feature.S && span == r.c.Span() && TopLevelSentence(r.c, id) {
		r.sentence(id)
	}
	return true
}

func (r *run) sentence(id chart.NodeID) {
	accepted := true
	if r.p.hook != nil {
		r.c.Seal()
		accepted = r.p.hook.OnSentenceCompleted(r.c, id)
		r.c.Unseal()
	}
	n := r.c.Node(id)
	r.result.Sentences = append(r.result.Sentences, Sentence{
		ID:       id,
		Score:    n.Score,
		Tree:     r.c.Bracket(id),
		Accepted: accepted,
	})
	r.p.log.Debugw("Sentence completed",
		logger.FieldNodeID, int(id),
		logger.FieldScore, n.Score,
		"accepted", accepted)
}

// finish seals the chart for good: consumers and callers only read it.
func (r *run) finish(consumer FragmentConsumer) {
	r.c.Seal()
	res := r.result
	res.Nodes = r.c.Len()
	if len(res.Sentences) > 0 {
		res.State = Spanned
	} else {
		res.State = Unspanned
	}

	if res.State == Unspanned || !res.anyAccepted() {
		res.Fragments = Fragments(r.c, r.p.cfg.MaxFragmentTies, consumer)
	}

	if res.State == Unspanned && r.p.dump != nil {
		if err := r.c.Dump(r.p.dump); err != nil {
			r.p.log.Warnw("Failed to write node dump", logger.FieldError, err)
		}
	}

	r.p.log.Debugw("Parse finished",
		logger.FieldState, res.State.String(),
		logger.FieldPasses, res.Passes,
		logger.FieldNodes, res.Nodes,
		"sentences", len(res.Sentences),
		"fragments", res.FragmentCount())
}

func (r *run) observe() {
	res := r.result
	outcome := metrics.OutcomeUnspanned
	switch {
	case res.State == Spanned:
		outcome = metrics.OutcomeSpanned
	case res.Nodes == 0:
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveParse(metrics.Parse{
		Outcome:       outcome,
		Sentences:     len(res.Sentences),
		Fragments:     res.FragmentCount(),
		Nodes:         res.Nodes,
		Passes:        res.Passes,
		BudgetStopped: res.BudgetStopped,
		Duration:      res.Elapsed,
	})
}
