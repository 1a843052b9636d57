package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/display"
	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/syn/grammar"
)

// GrammarCmd groups grammar table commands.
var GrammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Compile a bracketed corpus and inspect grammar rules",
	Long: `Compile bracketed training trees into a grammar table and list its rules.

Each tree such as "[Z [X [D a] [N house]] [V falls]]" adds one observation
per parent and children triple. A compiled table can be saved in the
database and selected with grammar.table_name instead of recompiling.

Examples:
  chartparse grammar compile corpus.txt
  chartparse grammar compile corpus.txt --save english
  chartparse grammar rules
  chartparse grammar rules --from-db english --json`,
}

var grammarCompileCmd = &cobra.Command{
	Use:   "compile <corpus>",
	Short: "Compile a corpus file and print statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runGrammarCompile,
}

var grammarRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules of the active or a stored grammar",
	RunE:  runGrammarRules,
}

var (
	grammarSaveFlag   string
	grammarFromDBFlag string
)

func init() {
	grammarCompileCmd.Flags().StringVar(&grammarSaveFlag, "save", "", "Save the compiled table in the database under this name")
	grammarRulesCmd.Flags().StringVar(&grammarFromDBFlag, "from-db", "", "List a table stored in the database instead of the configured one")

	GrammarCmd.AddCommand(grammarCompileCmd)
	GrammarCmd.AddCommand(grammarRulesCmd)
}

// compileSummary is the JSON output of grammar compile.
type compileSummary struct {
	Corpus string `json:"corpus"`
	grammar.CompileStats
	Rules   int    `json:"rules"`
	SavedAs string `json:"saved_as,omitempty"`
}

func runGrammarCompile(cmd *cobra.Command, args []string) error {
	table, stats, err := grammar.CompileFile(args[0])
	if err != nil {
		return err
	}
	summary := compileSummary{Corpus: args[0], CompileStats: stats, Rules: table.Len()}

	if grammarSaveFlag != "" {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		database, err := openDatabase(cfg, "")
		if err != nil {
			return err
		}
		defer database.Close()
		if err := grammar.SaveTable(context.Background(), database, grammarSaveFlag, table); err != nil {
			return err
		}
		summary.SavedAs = grammarSaveFlag
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(summary)
	}

	pterm.Success.Printfln("Compiled %s", args[0])
	pterm.Printfln("  Trees:        %d", stats.Trees)
	pterm.Printfln("  Observations: %d", stats.Observations)
	pterm.Printfln("  Rules:        %d", summary.Rules)
	if stats.Bad > 0 {
		pterm.Warning.Printfln("%d malformed trees skipped", stats.Bad)
	}
	if summary.SavedAs != "" {
		pterm.Info.Printfln("Saved as grammar %q", summary.SavedAs)
	}
	return nil
}

func runGrammarRules(cmd *cobra.Command, args []string) error {
	var table *grammar.Table
	if grammarFromDBFlag != "" {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		database, err := openDatabase(cfg, "")
		if err != nil {
			return err
		}
		defer database.Close()
		if table, err = grammar.LoadTable(context.Background(), database, grammarFromDBFlag); err != nil {
			return err
		}
	} else {
		eng, _, closeFn, err := newEngine(context.Background(), false)
		if err != nil {
			return err
		}
		defer closeFn()
		table = eng.Parser().Table()
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(table.Rules())
	}
	return table.WriteRules(cmd.OutOrStdout())
}
