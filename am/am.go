// Package am holds chartparse configuration: an am.toml file merged from the
// system, user and project directories, overridden by CHARTPARSE_* env vars.
package am

// Config represents the chartparse configuration
type Config struct {
	Parser   ParserConfig   `mapstructure:"parser"`
	Grammar  GrammarConfig  `mapstructure:"grammar"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
}

// ParserConfig tunes the chart driver
type ParserConfig struct {
	MaxPasses        int    `mapstructure:"max_passes"`         // 0 = until fixpoint
	BudgetMS         int    `mapstructure:"budget_ms"`          // wall time per parse, 0 = unlimited
	MaxFragmentTies  int    `mapstructure:"max_fragment_ties"`  // nodes handed over per fragment position
	MaxTokens        int    `mapstructure:"max_tokens"`         // seeded tokens per parse, 0 = unlimited
	CompoundNounOnly bool   `mapstructure:"compound_noun_only"` // admit only NP+NP -> NP pairs
	Language         string `mapstructure:"language"`           // "en" or "fr"
	Adjacency        string `mapstructure:"adjacency"`          // "whitespace" or "strict"
	Filters          string `mapstructure:"filters"`            // "reference" or "permissive"
}

// GrammarConfig locates the corpus and lexicon. Empty paths use the bundled
// English data.
type GrammarConfig struct {
	CorpusPath  string `mapstructure:"corpus_path"`
	LexiconPath string `mapstructure:"lexicon_path"`
	// TableName loads a compiled table from the database instead of a corpus.
	TableName string `mapstructure:"table_name"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port            *int     `mapstructure:"port"` // nil = default 8787, 0 is invalid (omit for default)
	ParsesPerMinute int      `mapstructure:"parses_per_minute"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReloadPerMinute int      `mapstructure:"reload_per_minute"` // corpus/config reloads, 0 = unlimited
}

// Accepted enumerations
const (
	AdjacencyWhitespace = "whitespace"
	AdjacencyStrict     = "strict"

	FiltersReference  = "reference"
	FiltersPermissive = "permissive"
)

// DefaultMaxTokens bounds the seeded tokens of one parse. A single pass over
// an ambiguous chart grows combinatorially with the token count and the
// budget is only polled between passes.
const DefaultMaxTokens = 24

// Server port constants
const (
	DefaultServerPort = 8787
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
