package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chartparse/cmd/chartparse/commands"
	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
)

var rootCmd = &cobra.Command{
	Use:   "chartparse",
	Short: "chartparse - bottom-up chart parser for natural language",
	Long: `chartparse - bottom-up, score-ranked chart parser.

Builds every constituent a trained grammar table allows over a sentence,
reports the sentences that span it, and falls back to the best covering
fragments when none does.

Available commands:
  parse   - Parse text and print trees or fragments
  grammar - Compile a bracketed corpus and inspect grammar rules
  am      - Manage chartparse configuration ("I am")
  db      - Migrate the database and inspect recorded parse runs
  serve   - Start the HTTP parse API
  version - Show build information

Examples:
  chartparse parse "the dog sees a cat"
  echo "a house falls" | chartparse parse --json
  chartparse grammar compile corpus.txt --save english
  chartparse serve -v`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.InitializeWithLevel(jsonOutput, logger.VerbosityToLevel(verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		if jsonOutput {
			pterm.DisableStyling()
		}
		logger.Debugw("Logger initialized", "level", logger.LevelName(verbosity))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON")

	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.GrammarCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
