// Package feature defines the grammatical category alphabet shared by the
// grammar table, the chart and the filters.
//
// Every feature has a one-letter code used by bracketed corpora and rule
// listings ("[Z [X [D the] [N dog]] [W [V runs]]]"). Codes outside the
// alphabet never fail: they map to Element.
package feature

import (
	"strings"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
)

// Feature is a part-of-speech or constituent category.
type Feature int

const (
	Null Feature = iota
	Adjective
	Adverb
	AdvP
	Determiner
	Noun
	Preposition
	Interjection
	Verb
	VP
	NP
	PP
	S
	Pronoun
	Conjunction
	AdjP
	SPos
	Element
	Expletive
)

// Count is the size of the alphabet, Null included.
const Count = 19

var codes = [Count]byte{'?', 'A', 'B', 'L', 'D', 'N', 'R', 'U', 'V', 'W', 'X', 'Y', 'Z', 'H', 'K', 'E', 'x', '9', '0'}

var names = [Count]string{
	"NULL", "ADJECTIVE", "ADVERB", "ADVP", "DETERMINER", "NOUN", "PREPOSITION",
	"INTERJECTION", "VERB", "VP", "NP", "PP", "S", "PRONOUN", "CONJUNCTION",
	"ADJP", "S_POS", "ELEMENT", "EXPLETIVE",
}

var byCode = func() map[byte]Feature {
	m := make(map[byte]Feature, Count)
	for i, c := range codes {
		m[c] = Feature(i)
	}
	return m
}()

// Valid reports whether f is inside the alphabet.
func (f Feature) Valid() bool {
	return f >= Null && f < Count
}

// Code returns the one-letter corpus code, '?' for anything invalid.
func (f Feature) Code() byte {
	if !f.Valid() {
		return codes[Null]
	}
	return codes[f]
}

func (f Feature) String() string {
	if !f.Valid() {
		return names[Null]
	}
	return names[f]
}

// IsPhrase reports whether f is a maximal phrase category.
func (f Feature) IsPhrase() bool {
	switch f {
	case NP, PP, VP, AdjP, AdvP, S:
		return true
	}
	return false
}

// FromCode looks up a corpus code.
func FromCode(c byte) (Feature, bool) {
	f, ok := byCode[c]
	return f, ok
}

// Lookup maps a corpus code to its feature. Unknown codes land in Element.
func Lookup(c byte) Feature {
	if f, ok := byCode[c]; ok {
		return f
	}
	logger.Debugw("Unknown feature symbol mapped to element", "symbol", string(c))
	return Element
}

// Parse accepts either a one-letter code or a feature name (case-insensitive).
func Parse(s string) (Feature, error) {
	if len(s) == 1 {
		if f, ok := byCode[s[0]]; ok {
			return f, nil
		}
	}
	upper := strings.ToUpper(s)
	for i, n := range names {
		if n == upper {
			return Feature(i), nil
		}
	}
	return Element, errors.Wrapf(errors.ErrUnknownFeature, "%q", s)
}

// Targets returns every non-null feature in index order. Rule firing tries
// each of these as a candidate parent.
func Targets() []Feature {
	out := make([]Feature, 0, Count-1)
	for f := Null + 1; f < Count; f++ {
		out = append(out, f)
	}
	return out
}

// MarshalText encodes a feature by name.
func (f Feature) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText accepts a name or a code; unknown symbols become Element.
func (f *Feature) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		logger.Debugw("Unknown feature symbol mapped to element", "symbol", string(b))
	}
	*f = parsed
	return nil
}
