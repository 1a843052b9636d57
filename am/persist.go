package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		logger.Warnw("Failed to delete old config backup",
			logger.FieldFile, back3,
			logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// readTOML loads configPath as a generic document, or an empty one when the
// file does not exist
func readTOML(configPath string) (map[string]interface{}, error) {
	doc := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", configPath)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", configPath)
	}
	return doc, nil
}

// SetValue writes key (dot notation, e.g. "parser.max_passes") into the TOML
// file at configPath, keeping every other setting and rotating backups
func SetValue(configPath, key string, value interface{}) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return errors.Newf("invalid config key %q", key)
		}
	}

	doc, err := readTOML(configPath)
	if err != nil {
		return err
	}

	section := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := section[p].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			section[p] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = value

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// Marshal renders cfg as TOML
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]interface{}{
		"parser": map[string]interface{}{
			"max_passes":         cfg.Parser.MaxPasses,
			"budget_ms":          cfg.Parser.BudgetMS,
			"max_fragment_ties":  cfg.Parser.MaxFragmentTies,
			"max_tokens":         cfg.Parser.MaxTokens,
			"compound_noun_only": cfg.Parser.CompoundNounOnly,
			"language":           cfg.Parser.Language,
			"adjacency":          cfg.Parser.Adjacency,
			"filters":            cfg.Parser.Filters,
		},
		"grammar": map[string]interface{}{
			"corpus_path":  cfg.Grammar.CorpusPath,
			"lexicon_path": cfg.Grammar.LexiconPath,
			"table_name":   cfg.Grammar.TableName,
		},
		"database": map[string]interface{}{
			"path": cfg.Database.Path,
		},
		"server": map[string]interface{}{
			"port":              cfg.GetServerPort(),
			"parses_per_minute": cfg.Server.ParsesPerMinute,
			"reload_per_minute": cfg.Server.ReloadPerMinute,
			"allowed_origins":   cfg.GetServerAllowedOrigins(),
		},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}
