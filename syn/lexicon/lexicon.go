package lexicon

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/feature"
)

//go:embed data/english.yaml
var englishYAML []byte

// Lexicon maps lowercased word forms to their readings.
type Lexicon struct {
	Language string
	words    map[string][]Entry
}

// file is the on-disk layout shared by the YAML and TOML formats.
type file struct {
	Language string                 `yaml:"language" toml:"language"`
	Words    map[string][]entryFile `yaml:"words" toml:"words"`
}

type entryFile struct {
	Feature    string   `yaml:"feature" toml:"feature"`
	Tags       []string `yaml:"tags" toml:"tags"`
	Score      float64  `yaml:"score" toml:"score"`
	Inflection `yaml:",inline"`
}

// New returns an empty lexicon.
func New(language string) *Lexicon {
	return &Lexicon{Language: language, words: make(map[string][]Entry)}
}

// English returns the built-in reference lexicon.
func English() *Lexicon {
	l, err := Decode(englishYAML, "yaml")
	if err != nil {
		panic(errors.Wrap(err, "built-in english lexicon"))
	}
	return l
}

// Add registers one reading. Scores default to 1.
func (l *Lexicon) Add(e Entry) {
	e.Word = strings.ToLower(e.Word)
	if e.Score <= 0 {
		e.Score = 1
	}
	if e.Language == "" {
		e.Language = l.Language
	}
	l.words[e.Word] = append(l.words[e.Word], e)
}

// Lookup returns the readings of a word form, case-insensitively.
func (l *Lexicon) Lookup(word string) []Entry {
	return l.words[strings.ToLower(word)]
}

// Len is the number of distinct word forms.
func (l *Lexicon) Len() int {
	return len(l.words)
}

// Words lists the known word forms in sorted order.
func (l *Lexicon) Words() []string {
	out := make([]string, 0, len(l.words))
	for w := range l.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Load reads a lexicon file; the extension selects YAML or TOML.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read lexicon %s", path)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}

	l, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "lexicon %s", path)
	}

	logger.ComponentLogger("syn.lexicon").Infow("Loaded lexicon",
		logger.FieldFile, path,
		"language", l.Language,
		logger.FieldCount, l.Len())
	return l, nil
}

// Decode parses lexicon data in "yaml" or "toml" format.
func Decode(data []byte, format string) (*Lexicon, error) {
	var f file
	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "failed to decode yaml lexicon")
		}
	case "toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, errors.Wrap(err, "failed to decode toml lexicon")
		}
	default:
		return nil, errors.Newf("unsupported lexicon format %q", format)
	}

	if f.Language == "" {
		f.Language = "en"
	}
	l := New(f.Language)
	for word, entries := range f.Words {
		for _, ef := range entries {
			feat, err := feature.Parse(ef.Feature)
			if err != nil {
				logger.Warnw("Lexicon entry has unknown feature, using element",
					"word", word, "feature", ef.Feature)
			}
			l.Add(Entry{
				Word:       word,
				Feature:    feat,
				Tags:       ef.Tags,
				Score:      ef.Score,
				Inflection: ef.Inflection,
			})
		}
	}
	return l, nil
}
