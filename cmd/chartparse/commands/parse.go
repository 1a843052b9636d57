package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/chartparse/display"
	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/engine"
	"github.com/teranos/chartparse/syn/feature"
	"github.com/teranos/chartparse/syn/filter"
	"github.com/teranos/chartparse/syn/parser"
)

// ParseCmd parses text from its arguments or stdin.
var ParseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Parse text and print sentence trees or fragments",
	Long: `Parse one text with the configured grammar and lexicon.

The text is taken from the arguments, or read from stdin when none are
given. A text that yields a sentence prints its tree; otherwise the best
covering fragments are printed, with unparsed gaps between them.

Examples:
  chartparse parse "the old dog sees a cat"
  chartparse parse --span 4,12 "oh, a house falls"
  chartparse parse --dump "in in" 2> chart.txt
  chartparse parse --break 0,1 "a house falls"`,
	RunE: runParse,
}

var (
	parseSpanFlag   string
	parseDumpFlag   bool
	parseRecordFlag bool
	parseBreakFlags []string
)

func init() {
	ParseCmd.Flags().StringVar(&parseSpanFlag, "span", "", "Parse only bytes lower,upper (inclusive)")
	ParseCmd.Flags().BoolVar(&parseDumpFlag, "dump", false, "Write the chart to stderr when no sentence spans the text")
	ParseCmd.Flags().BoolVar(&parseRecordFlag, "record", false, "Record the run in the database")
	ParseCmd.Flags().StringArrayVar(&parseBreakFlags, "break", nil, "Log when the rule attempt on nodes left,right is reached (repeatable)")
}

func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read stdin")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func parseBreakpoints(flags []string) ([]filter.Breakpoint, error) {
	var bps []filter.Breakpoint
	for _, f := range flags {
		s, err := parseSpan(f)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid breakpoint %q", f)
		}
		bps = append(bps, filter.Breakpoint{Left: chart.NodeID(s.Lower), Right: chart.NodeID(s.Upper), Target: feature.Null})
	}
	return bps, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	span, err := parseSpan(parseSpanFlag)
	if err != nil {
		return err
	}
	bps, err := parseBreakpoints(parseBreakFlags)
	if err != nil {
		return err
	}

	var popts []parser.Option
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if parseDumpFlag || logger.ShouldLogTrace(verbosity) {
		popts = append(popts, parser.WithDump(cmd.ErrOrStderr()))
	}
	if len(bps) > 0 {
		popts = append(popts, parser.WithBreakpoints(nil, bps...))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, _, closeFn, err := newEngine(ctx, parseRecordFlag, engine.WithParserOptions(popts...))
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := eng.Parse(ctx, engine.Request{Text: text, Span: span})
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(display.NewView(out.RunID, out.Result))
	}
	return display.Result(cmd.OutOrStdout(), out.Result)
}
