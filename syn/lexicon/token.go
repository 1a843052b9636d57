// Package lexicon is the lexical supply for the chart parser: word entries
// with their inflections and class tags, and a tokenizer that turns text
// into word-level tokens with inclusive byte spans.
package lexicon

import (
	"strings"

	"github.com/teranos/chartparse/syn/feature"
)

// Type classifies a supplied unit. Only word-level types are seeded into a
// chart; the rest (punctuation, tables, headers found by upstream agents)
// pass through untouched.
type Type int

const (
	Constituent Type = iota
	Lexitem
	Name
	OrgName
	Polity
	TSRange
	TelNo
	MediaObj
	Product
	Number
	Punctuation
	Email
	Table
)

var typeNames = map[Type]string{
	Constituent: "constituent",
	Lexitem:     "lexitem",
	Name:        "name",
	OrgName:     "org_name",
	Polity:      "polity",
	TSRange:     "tsrange",
	TelNo:       "telno",
	MediaObj:    "media_obj",
	Product:     "product",
	Number:      "number",
	Punctuation: "punctuation",
	Email:       "email",
	Table:       "table",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// WordLevel reports whether the chart parser consumes this type.
func (t Type) WordLevel() bool {
	return t >= Lexitem && t <= Number
}

// DefaultFeature is the category an entity of this type takes when no
// lexical entry says otherwise. Time ranges behave adverbially.
func (t Type) DefaultFeature() feature.Feature {
	switch t {
	case TSRange:
		return feature.Adverb
	case Lexitem, Constituent, Punctuation, Table:
		return feature.Null
	default:
		return feature.Noun
	}
}

// Inflection holds the grammatical features of a word form.
type Inflection struct {
	Tense  string `json:"tense,omitempty" yaml:"tense" toml:"tense"`
	Mood   string `json:"mood,omitempty" yaml:"mood" toml:"mood"`
	Number string `json:"number,omitempty" yaml:"number" toml:"number"`
	Person string `json:"person,omitempty" yaml:"person" toml:"person"`
	Gender string `json:"gender,omitempty" yaml:"gender" toml:"gender"`
}

// Tense values the filters inspect.
const (
	TensePresent           = "present"
	TensePast              = "past"
	TenseInfinitive        = "infinitive"
	TensePresentParticiple = "present-participle"
	TensePastParticiple    = "past-participle"
)

// Entry is one reading of a word.
type Entry struct {
	Word       string          `json:"word"`
	Feature    feature.Feature `json:"feature"`
	Tags       []string        `json:"tags,omitempty"`
	Inflection Inflection      `json:"inflection"`
	Score      float64         `json:"score,omitempty"`
	Language   string          `json:"language,omitempty"`
	// Punct is the punctuation immediately following the word in the text.
	Punct string `json:"punct,omitempty"`
}

// Has reports whether the entry carries a class tag.
func (e *Entry) Has(tag string) bool {
	if e == nil {
		return false
	}
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FollowedBy reports whether the word is directly followed by any of the
// given punctuation characters.
func (e *Entry) FollowedBy(chars string) bool {
	return e != nil && e.Punct != "" && strings.ContainsAny(e.Punct, chars)
}

// Token is a unit offered to the chart parser. Lower and Upper are
// inclusive byte offsets into the source text.
type Token struct {
	Type    Type            `json:"type"`
	Score   float64         `json:"score"`
	Lower   int             `json:"lower"`
	Upper   int             `json:"upper"`
	Feature feature.Feature `json:"feature"`
	Entry   *Entry          `json:"entry,omitempty"`
}
