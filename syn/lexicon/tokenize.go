package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/feature"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return s != ""
}

// Tokenize splits text into words and emits one Token per reading of each
// known word. Unknown numerals become NUMBER tokens; other unknown words are
// skipped, which leaves a gap for fragment recovery.
func (l *Lexicon) Tokenize(text string) []Token {
	var tokens []Token

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) || r == '\'' || r == '-' {
			i += size
			continue
		}

		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isWordRune(r) {
				break
			}
			i += size
		}
		end := i
		// trailing apostrophes and hyphens belong to the punctuation
		for end > start && (text[end-1] == '\'' || text[end-1] == '-') {
			end--
		}
		word := text[start:end]

		p := end
		for p < len(text) {
			r, size = utf8.DecodeRuneInString(text[p:])
			if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
				break
			}
			p += size
		}
		punct := text[end:p]

		// "John's" splits into the noun and the genitive element
		if stem, ok := l.genitiveStem(word); ok {
			tokens = append(tokens, l.readings(stem, "", start, start+len(stem)-1)...)
			tokens = append(tokens, l.readings(word[len(stem):], punct, start+len(stem), end-1)...)
			continue
		}

		tokens = append(tokens, l.readings(word, punct, start, end-1)...)
	}

	return tokens
}

const genitive = "'s"

func (l *Lexicon) genitiveStem(word string) (string, bool) {
	if len(word) <= len(genitive) || !strings.EqualFold(word[len(word)-len(genitive):], genitive) {
		return "", false
	}
	if len(l.Lookup(word)) > 0 || len(l.Lookup(genitive)) == 0 {
		return "", false
	}
	return word[:len(word)-len(genitive)], true
}

func (l *Lexicon) readings(word, punct string, lower, upper int) []Token {
	entries := l.Lookup(word)
	if len(entries) == 0 {
		if allDigits(word) {
			return []Token{{
				Type:    Number,
				Score:   1,
				Lower:   lower,
				Upper:   upper,
				Feature: Number.DefaultFeature(),
				Entry: &Entry{
					Word:     word,
					Feature:  feature.Noun,
					Tags:     []string{"number"},
					Score:    1,
					Language: l.Language,
					Punct:    punct,
				},
			}}
		}
		logger.Debugw("Skipping unknown word", "word", word, logger.FieldLower, lower)
		return nil
	}

	out := make([]Token, 0, len(entries))
	for _, e := range entries {
		e := e
		e.Punct = punct
		out = append(out, Token{
			Type:    Lexitem,
			Score:   e.Score,
			Lower:   lower,
			Upper:   upper,
			Feature: e.Feature,
			Entry:   &e,
		})
	}
	return out
}
