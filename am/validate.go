package am

import "github.com/teranos/chartparse/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Parser: 0 = unlimited for passes and budget, negative = invalid
	if c.Parser.MaxPasses < 0 {
		return errors.Newf("parser.max_passes must be >= 0, got %d", c.Parser.MaxPasses)
	}
	if c.Parser.BudgetMS < 0 {
		return errors.Newf("parser.budget_ms must be >= 0, got %d", c.Parser.BudgetMS)
	}
	if c.Parser.MaxFragmentTies <= 0 {
		return errors.Newf("parser.max_fragment_ties must be > 0, got %d", c.Parser.MaxFragmentTies)
	}
	if c.Parser.MaxTokens < 0 {
		return errors.WithHint(
			errors.Newf("parser.max_tokens must be >= 0, got %d", c.Parser.MaxTokens),
			"Use 0 for no limit")
	}
	switch c.Parser.Language {
	case "en", "fr":
	default:
		return errors.WithHint(
			errors.Newf("parser.language %q is not supported", c.Parser.Language),
			"Use \"en\" or \"fr\"")
	}
	switch c.Parser.Adjacency {
	case AdjacencyWhitespace, AdjacencyStrict:
	default:
		return errors.Newf("parser.adjacency must be %q or %q, got %q",
			AdjacencyWhitespace, AdjacencyStrict, c.Parser.Adjacency)
	}
	switch c.Parser.Filters {
	case FiltersReference, FiltersPermissive:
	default:
		return errors.Newf("parser.filters must be %q or %q, got %q",
			FiltersReference, FiltersPermissive, c.Parser.Filters)
	}

	// Grammar: a database table and a corpus file are alternatives
	if c.Grammar.TableName != "" && c.Grammar.CorpusPath != "" {
		return errors.New("grammar.table_name and grammar.corpus_path are mutually exclusive")
	}

	// Server port: 0 is invalid (omit for default), negative is invalid
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && (*c.Server.Port < 0 || *c.Server.Port > 65535) {
		return errors.Newf("server.port must be in 1..65535, got %d", *c.Server.Port)
	}

	// Rate limits: 0 = unlimited, negative = invalid
	if c.Server.ParsesPerMinute < 0 {
		return errors.Newf("server.parses_per_minute must be >= 0, got %d", c.Server.ParsesPerMinute)
	}
	if c.Server.ReloadPerMinute < 0 {
		return errors.Newf("server.reload_per_minute must be >= 0, got %d", c.Server.ReloadPerMinute)
	}

	return nil
}
