package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/syn/feature"
)

func TestEnglishLexicon(t *testing.T) {
	l := English()
	assert.Equal(t, "en", l.Language)
	assert.Greater(t, l.Len(), 50)

	house := l.Lookup("House")
	require.Len(t, house, 1)
	assert.Equal(t, feature.Noun, house[0].Feature)
	assert.Equal(t, "singular", house[0].Inflection.Number)
	assert.Equal(t, 1.0, house[0].Score)

	is := l.Lookup("is")
	require.Len(t, is, 1)
	assert.True(t, is[0].Has("copula"))
	assert.False(t, is[0].Has("proper"))
	assert.Equal(t, TensePresent, is[0].Inflection.Tense)

	assert.Len(t, l.Lookup("fall"), 3)
	assert.Empty(t, l.Lookup("xylophone"))
}

func TestTokenize(t *testing.T) {
	l := English()
	tokens := l.Tokenize("a house falls")

	// "falls" is both a verb and a plural noun
	require.Len(t, tokens, 4)
	assert.Equal(t, Token{Type: Lexitem, Score: 1, Lower: 0, Upper: 0, Feature: feature.Determiner, Entry: tokens[0].Entry}, tokens[0])
	assert.Equal(t, 2, tokens[1].Lower)
	assert.Equal(t, 6, tokens[1].Upper)
	assert.Equal(t, feature.Noun, tokens[1].Feature)
	assert.Equal(t, 8, tokens[2].Lower)
	assert.Equal(t, 12, tokens[2].Upper)
	assert.Equal(t, feature.Verb, tokens[2].Feature)
	assert.Equal(t, feature.Noun, tokens[3].Feature)
}

func TestTokenizePunctuationAndUnknowns(t *testing.T) {
	l := English()
	tokens := l.Tokenize("Oh, the zorg sees 42 dogs.")

	var words []string
	for _, tok := range tokens {
		words = append(words, tok.Entry.Word)
	}
	assert.Equal(t, []string{"oh", "the", "sees", "42", "dogs"}, words)

	assert.Equal(t, ",", tokens[0].Entry.Punct)
	assert.True(t, tokens[0].Entry.FollowedBy(","))
	assert.Equal(t, ".", tokens[4].Entry.Punct)

	assert.Equal(t, Number, tokens[3].Type)
	assert.Equal(t, feature.Noun, tokens[3].Feature)
	assert.True(t, tokens[3].Entry.Has("number"))
}

func TestTokenizeGenitive(t *testing.T) {
	l := English()
	tokens := l.Tokenize("John's dog")
	require.Len(t, tokens, 3)
	assert.Equal(t, "john", tokens[0].Entry.Word)
	assert.Equal(t, 0, tokens[0].Lower)
	assert.Equal(t, 3, tokens[0].Upper)
	assert.Equal(t, feature.Element, tokens[1].Feature)
	assert.Equal(t, 4, tokens[1].Lower)
	assert.Equal(t, 5, tokens[1].Upper)
	assert.Equal(t, "dog", tokens[2].Entry.Word)
}

func TestDecodeTOML(t *testing.T) {
	data := `
language = "fr"

[[words.chat]]
feature = "N"
gender = "masculine"
number = "singular"

[[words.le]]
feature = "DETERMINER"
tags = ["definite"]
`
	l, err := Decode([]byte(data), "toml")
	require.NoError(t, err)
	assert.Equal(t, "fr", l.Language)

	chat := l.Lookup("chat")
	require.Len(t, chat, 1)
	assert.Equal(t, feature.Noun, chat[0].Feature)
	assert.Equal(t, "masculine", chat[0].Inflection.Gender)
	assert.Equal(t, "fr", chat[0].Language)

	le := l.Lookup("le")
	require.Len(t, le, 1)
	assert.Equal(t, feature.Determiner, le[0].Feature)
	assert.True(t, le[0].Has("definite"))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("words: {a: [{feature: D, colour: red}]}"), "yaml")
	assert.Error(t, err, "unknown fields are rejected")

	_, err = Decode([]byte("{}"), "json")
	assert.Error(t, err)

	l, err := Decode([]byte("words: {zap: [{feature: Q}]}"), "yaml")
	require.NoError(t, err)
	assert.Equal(t, feature.Element, l.Lookup("zap")[0].Feature)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: en\nwords:\n  cup:\n    - {feature: N}\n"), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cup"}, l.Words())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestTypes(t *testing.T) {
	assert.True(t, Name.WordLevel())
	assert.True(t, Number.WordLevel())
	assert.False(t, Punctuation.WordLevel())
	assert.False(t, Constituent.WordLevel())
	assert.Equal(t, feature.Adverb, TSRange.DefaultFeature())
	assert.Equal(t, feature.Noun, Polity.DefaultFeature())
	assert.Equal(t, "tsrange", TSRange.String())
}
