package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

var defaultAllowedOrigins = []string{
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1",
	"https://127.0.0.1",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Parser defaults
	v.SetDefault("parser.max_passes", 0)
	v.SetDefault("parser.budget_ms", 2000)
	v.SetDefault("parser.max_fragment_ties", 15)
	v.SetDefault("parser.max_tokens", DefaultMaxTokens)
	v.SetDefault("parser.compound_noun_only", false)
	v.SetDefault("parser.language", "en")
	v.SetDefault("parser.adjacency", AdjacencyWhitespace)
	v.SetDefault("parser.filters", FiltersReference)

	// Grammar defaults (empty = bundled data)
	v.SetDefault("grammar.corpus_path", "")
	v.SetDefault("grammar.lexicon_path", "")
	v.SetDefault("grammar.table_name", "")

	// Database defaults
	v.SetDefault("database.path", "chartparse.db")

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.parses_per_minute", 600)
	v.SetDefault("server.reload_per_minute", 6)
	v.SetDefault("server.allowed_origins", defaultAllowedOrigins)
}

// BindEnvVars binds settings whose env names do not follow the automatic
// CHARTPARSE_SECTION_KEY pattern
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "CHARTPARSE_DATABASE_PATH", "CHARTPARSE_DB")
	v.BindEnv("grammar.corpus_path", "CHARTPARSE_GRAMMAR_CORPUS_PATH", "CHARTPARSE_CORPUS")
}

// GetServerPort returns the configured port, or DefaultServerPort
func (c *Config) GetServerPort() int {
	if c.Server.Port == nil {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "chartparse.db" // Fallback default
	}
	return c.Database.Path
}

// GetServerAllowedOrigins returns the allowed CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return defaultAllowedOrigins
	}
	return c.Server.AllowedOrigins
}

// Budget returns the per-parse wall time budget, 0 meaning unlimited
func (p ParserConfig) Budget() time.Duration {
	return time.Duration(p.BudgetMS) * time.Millisecond
}

// StrictAdjacency reports whether whitespace breaks adjacency
func (p ParserConfig) StrictAdjacency() bool {
	return p.Adjacency == AdjacencyStrict
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Parser: {Language: %s, Filters: %s, MaxPasses: %d}, Database: %s, Server: {Port: %d}}",
		c.Parser.Language, c.Parser.Filters, c.Parser.MaxPasses, c.Database.Path, c.GetServerPort())
}
