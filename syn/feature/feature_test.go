package feature

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/errors"
)

func TestCodesRoundTrip(t *testing.T) {
	for f := Null; f < Count; f++ {
		got, ok := FromCode(f.Code())
		require.True(t, ok, "code %q", f.Code())
		assert.Equal(t, f, got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		code byte
		want Feature
	}{
		{'Z', S},
		{'X', NP},
		{'W', VP},
		{'D', Determiner},
		{'x', SPos},
		{'9', Element},
		{'0', Expletive},
		{'Q', Element},
		{'#', Element},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.code))
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("np")
	require.NoError(t, err)
	assert.Equal(t, NP, f)

	f, err = Parse("Y")
	require.NoError(t, err)
	assert.Equal(t, PP, f)

	f, err = Parse("gerund")
	assert.True(t, errors.Is(err, errors.ErrUnknownFeature))
	assert.Equal(t, Element, f)
}

func TestStringAndValidity(t *testing.T) {
	assert.Equal(t, "S_POS", SPos.String())
	assert.Equal(t, "NULL", Feature(42).String())
	assert.Equal(t, byte('?'), Feature(-1).Code())
	assert.False(t, Feature(Count).Valid())
	assert.True(t, AdjP.IsPhrase())
	assert.False(t, Noun.IsPhrase())
}

func TestTargetsExcludeNull(t *testing.T) {
	targets := Targets()
	assert.Len(t, targets, Count-1)
	assert.NotContains(t, targets, Null)
	assert.Equal(t, Adjective, targets[0])
	assert.Equal(t, Expletive, targets[len(targets)-1])
}

func TestJSONText(t *testing.T) {
	type wrapper struct {
		F Feature `json:"f"`
	}

	data, err := json.Marshal(wrapper{F: VP})
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":"VP"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"f":"K"}`), &w))
	assert.Equal(t, Conjunction, w.F)

	require.NoError(t, json.Unmarshal([]byte(`{"f":"mystery"}`), &w))
	assert.Equal(t, Element, w.F)
}
