// Package engine assembles a ready-to-use parser from configuration: the
// lexicon, the grammar table (bundled, corpus file or database), the filter
// set, and an optional audit trail of runs.
package engine

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/db"
	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/pulse/budget"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/filter"
	"github.com/teranos/chartparse/syn/grammar"
	"github.com/teranos/chartparse/syn/lexicon"
	"github.com/teranos/chartparse/syn/parser"
)

// Engine tokenizes and parses text. Reload swaps its parts atomically, so
// it is safe to share between request handlers.
type Engine struct {
	mu        sync.RWMutex
	lex       *lexicon.Lexicon
	parser    *parser.Parser
	maxTokens int

	db    *sql.DB
	runs  *db.RunStore
	hook  parser.SentenceHook
	extra []parser.Option
	log   *zap.SugaredLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDB stores compiled tables and run records in database.
func WithDB(database *sql.DB) Option {
	return func(e *Engine) {
		e.db = database
		if database != nil {
			e.runs = db.NewRunStore(database)
		}
	}
}

// WithHook forwards completed sentences to h.
func WithHook(h parser.SentenceHook) Option {
	return func(e *Engine) { e.hook = h }
}

// WithParserOptions appends opts to the options every rebuilt parser gets,
// for example a dump writer or breakpoints.
func WithParserOptions(opts ...parser.Option) Option {
	return func(e *Engine) { e.extra = append(e.extra, opts...) }
}

// New builds an engine from cfg.
func New(ctx context.Context, cfg *am.Config, opts ...Option) (*Engine, error) {
	e := &Engine{log: logger.ComponentLogger("syn.engine")}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Reload(ctx, cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload rebuilds the lexicon, table and parser from cfg. On error the
// previous parts stay in place.
func (e *Engine) Reload(ctx context.Context, cfg *am.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	lex, err := e.loadLexicon(cfg.Grammar)
	if err != nil {
		return err
	}
	table, err := e.loadTable(ctx, cfg.Grammar)
	if err != nil {
		return err
	}

	filters := filter.Permissive()
	if cfg.Parser.Filters == am.FiltersReference {
		filters = filter.Reference()
	}

	opts := []parser.Option{
		parser.WithConfig(parser.Config{
			MaxPasses:        cfg.Parser.MaxPasses,
			Budget:           cfg.Parser.Budget(),
			MaxFragmentTies:  cfg.Parser.MaxFragmentTies,
			Language:         cfg.Parser.Language,
			CompoundNounOnly: cfg.Parser.CompoundNounOnly,
			StrictAdjacency:  cfg.Parser.StrictAdjacency(),
		}),
	}
	if e.hook != nil {
		opts = append(opts, parser.WithHook(e.hook))
	}
	opts = append(opts, e.extra...)
	p := parser.New(table, filters, opts...)

	e.mu.Lock()
	e.lex = lex
	e.parser = p
	e.maxTokens = cfg.Parser.MaxTokens
	e.mu.Unlock()

	e.log.Infow("Parser ready",
		"words", lex.Len(),
		"rules", table.Len(),
		"filters", filters.Name,
		"language", cfg.Parser.Language)
	return nil
}

func (e *Engine) loadLexicon(cfg am.GrammarConfig) (*lexicon.Lexicon, error) {
	if cfg.LexiconPath == "" {
		return lexicon.English(), nil
	}
	return lexicon.Load(cfg.LexiconPath)
}

func (e *Engine) loadTable(ctx context.Context, cfg am.GrammarConfig) (*grammar.Table, error) {
	switch {
	case cfg.TableName != "":
		if e.db == nil {
			return nil, errors.WithHint(
				errors.Newf("grammar table %q needs a database", cfg.TableName),
				"Set database.path or use grammar.corpus_path instead")
		}
		return grammar.LoadTable(ctx, e.db, cfg.TableName)
	case cfg.CorpusPath != "":
		table, _, err := grammar.CompileFile(cfg.CorpusPath)
		return table, err
	default:
		return grammar.Default()
	}
}

// Parser returns the current parser.
func (e *Engine) Parser() *parser.Parser {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parser
}

// Lexicon returns the current lexicon.
func (e *Engine) Lexicon() *lexicon.Lexicon {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lex
}

// Request is one text to parse.
type Request struct {
	Text string
	// Span restricts parsing to part of Text. nil means all of it.
	Span     *chart.Span
	Budget   budget.Token
	Consumer parser.FragmentConsumer
}

// Outcome is a parse result with its audit id.
type Outcome struct {
	RunID  string
	Result *parser.Result
}

// Parse tokenizes and parses req.Text and records the run when a database
// is attached. A failure to record is logged, not returned.
func (e *Engine) Parse(ctx context.Context, req Request) (*Outcome, error) {
	e.mu.RLock()
	lex, p, maxTokens := e.lex, e.parser, e.maxTokens
	e.mu.RUnlock()

	if req.Text == "" {
		return nil, errors.NewInvalidRequestError("empty text")
	}

	tokens := lex.Tokenize(req.Text)
	if n := seedCount(tokens, req.Span); maxTokens > 0 && n > maxTokens {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("text has %d tokens, limit is %d", n, maxTokens),
			"Split the text into sentences or raise parser.max_tokens")
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)

	res, err := p.Parse(ctx, parser.Request{
		Text:     req.Text,
		Tokens:   tokens,
		Span:     req.Span,
		Budget:   req.Budget,
		Consumer: req.Consumer,
	})
	if err != nil {
		return nil, err
	}

	logger.LoggerFromContext(ctx).Debugw("Parse finished",
		"state", res.State.String(),
		"sentences", len(res.Sentences),
		"nodes", res.Nodes,
		"passes", res.Passes)

	out := &Outcome{RunID: runID, Result: res}
	e.record(ctx, req.Text, out)
	return out, nil
}

// seedCount counts the tokens the parser would seed for span.
func seedCount(tokens []lexicon.Token, span *chart.Span) int {
	n := 0
	for _, tok := range tokens {
		if !tok.Type.WordLevel() {
			continue
		}
		if span != nil && (tok.Lower < span.Lower || tok.Lower > span.Upper) {
			continue
		}
		n++
	}
	return n
}

func (e *Engine) record(ctx context.Context, text string, out *Outcome) {
	if e.runs == nil {
		return
	}
	res := out.Result
	gaps := 0
	for _, piece := range parser.GroupGaps(res.Fragments) {
		if piece.Gap() {
			gaps++
		}
	}
	run := db.Run{
		ID:            out.RunID,
		Text:          text,
		Lower:         res.Span.Lower,
		Upper:         res.Span.Upper,
		State:         res.State.String(),
		Sentences:     len(res.Sentences),
		Fragments:     res.FragmentCount(),
		Gaps:          gaps,
		Nodes:         res.Nodes,
		Passes:        res.Passes,
		BudgetStopped: res.BudgetStopped,
		DurationMS:    res.Elapsed.Milliseconds(),
	}
	if err := e.runs.Save(ctx, run); err != nil {
		e.log.Warnw("Failed to record parse run",
			logger.FieldRunID, out.RunID,
			logger.FieldError, err)
	}
}

// Runs returns the run store, or nil without a database.
func (e *Engine) Runs() *db.RunStore {
	return e.runs
}
