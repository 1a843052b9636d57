package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("corpus line %d: %s", 3, "unbalanced")
	require.NotNil(t, err)
	assert.Equal(t, "corpus line 3: unbalanced", err.Error())
}

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrapf(ErrBadCorpus, "reading %s", "grammar.txt")

	assert.Contains(t, wrapped.Error(), "reading grammar.txt")
	assert.Contains(t, wrapped.Error(), "bad corpus")
	assert.True(t, Is(wrapped, ErrBadCorpus))
	assert.False(t, Is(wrapped, ErrInvalidSpan))
}

type spanError struct {
	lower, upper int
}

func (e *spanError) Error() string {
	return "span error"
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&spanError{lower: 4, upper: 2}, "seeding")

	var target *spanError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 4, target.lower)
}

func TestHintsAndDetails(t *testing.T) {
	err := WithHint(New("no lexicon"), "set grammar.lexicon_path")
	err = WithDetail(err, "searched: ./lexicon.yaml")

	assert.Equal(t, []string{"set grammar.lexicon_path"}, GetAllHints(err))
	assert.Equal(t, []string{"searched: ./lexicon.yaml"}, GetAllDetails(err))
}

func TestGetStack(t *testing.T) {
	assert.NotNil(t, GetStack(New("with stack")))
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		notFound   bool
		badRequest bool
	}{
		{"nil", nil, false, false},
		{"not found", NewNotFoundError("run %s", "abc"), true, false},
		{"invalid request", NewInvalidRequestError("empty text"), false, true},
		{"wrapped invalid", Wrap(ErrInvalidRequest, "decoding body"), false, true},
		{"unrelated", New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.badRequest, IsInvalidRequestError(tt.err))
		})
	}
}

func TestNewNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("parse run %s", "1234")
	assert.Contains(t, err.Error(), "parse run 1234")
}
