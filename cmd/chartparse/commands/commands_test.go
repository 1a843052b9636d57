package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/feature"
)

// isolate points config lookup at an empty home and working directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)
	am.Reset()
	t.Cleanup(am.Reset)
	return dir
}

func TestParseSpan(t *testing.T) {
	s, err := parseSpan("4,12")
	require.NoError(t, err)
	assert.Equal(t, &chart.Span{Lower: 4, Upper: 12}, s)

	s, err = parseSpan(" 0 : 3 ")
	require.NoError(t, err)
	assert.Equal(t, &chart.Span{Lower: 0, Upper: 3}, s)

	s, err = parseSpan("")
	require.NoError(t, err)
	assert.Nil(t, s)

	for _, bad := range []string{"4", "a,b", "1,2,3"} {
		_, err := parseSpan(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBreakpoints(t *testing.T) {
	bps, err := parseBreakpoints([]string{"0,1", "3,4"})
	require.NoError(t, err)
	require.Len(t, bps, 2)
	assert.Equal(t, chart.NodeID(3), bps[1].Left)
	assert.Equal(t, chart.NodeID(4), bps[1].Right)
	assert.Equal(t, feature.Null, bps[1].Target)

	_, err = parseBreakpoints([]string{"x"})
	assert.Error(t, err)
}

func TestReadText(t *testing.T) {
	text, err := readText([]string{"a", "house"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "a house", text)

	text, err = readText(nil, strings.NewReader("a house falls\n"))
	require.NoError(t, err)
	assert.Equal(t, "a house falls", text)
}

func TestTypedValue(t *testing.T) {
	assert.Equal(t, 500, typedValue("500"))
	assert.Equal(t, true, typedValue("true"))
	assert.Equal(t, "strict", typedValue("strict"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long ...", truncate("a long sentence", 10))
}

func TestParseCommand(t *testing.T) {
	isolate(t)
	pterm.DisableColor()
	defer pterm.EnableColor()

	var out bytes.Buffer
	ParseCmd.SetArgs([]string{"the", "dog", "runs"})
	ParseCmd.SetOut(&out)
	defer ParseCmd.SetOut(nil)

	require.NoError(t, ParseCmd.Execute())
	assert.Contains(t, out.String(), "spanned [0,11]")
}

func TestAmSetWritesProjectConfig(t *testing.T) {
	dir := isolate(t)
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	require.NoError(t, runAmSet(AmCmd, []string{"parser.budget_ms", "500"}))

	data, err := os.ReadFile(filepath.Join(dir, am.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "budget_ms = 500")

	cfg, err := am.Load()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Parser.BudgetMS)
}
