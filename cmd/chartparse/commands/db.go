package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/db"
	"github.com/teranos/chartparse/display"
	"github.com/teranos/chartparse/errors"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Migrate the database and inspect parse runs",
	Long: `db - Manage the chartparse database

The database stores compiled grammar tables and an audit trail of parse
runs recorded by "parse --record" and the HTTP API.

Examples:
  chartparse db migrate
  chartparse db runs --limit 10
  chartparse db run 4f0c...`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	RunE:  runDbMigrate,
}

var dbRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent parse runs",
	RunE:  runDbRuns,
}

var dbRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Show one parse run",
	Args:  cobra.ExactArgs(1),
	RunE:  runDbRun,
}

var (
	dbPathFlag    string
	runsLimitFlag int
)

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "Database path (overrides config)")
	dbRunsCmd.Flags().IntVar(&runsLimitFlag, "limit", 20, "Number of runs to show")

	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbRunsCmd)
	DbCmd.AddCommand(dbRunCmd)
}

func openConfiguredDatabase() (*db.RunStore, func(), error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg, dbPathFlag)
	if err != nil {
		return nil, nil, err
	}
	return db.NewRunStore(database), func() { database.Close() }, nil
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	_, closeFn, err := openConfiguredDatabase()
	if err != nil {
		return err
	}
	closeFn()
	pterm.Success.Println("Database is up to date")
	return nil
}

func runDbRuns(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openConfiguredDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	runs, err := store.Recent(context.Background(), runsLimitFlag)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(runs)
	}
	if len(runs) == 0 {
		pterm.Info.Println("No parse runs recorded")
		return nil
	}

	data := pterm.TableData{{"ID", "State", "Sentences", "Fragments", "Nodes", "Took", "Text"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID[:min(8, len(r.ID))],
			r.State,
			strconv.Itoa(r.Sentences),
			strconv.Itoa(r.Fragments),
			strconv.Itoa(r.Nodes),
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
			truncate(r.Text, 40),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runDbRun(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openConfiguredDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	run, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(run)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", run.ID)
	fmt.Fprintf(out, "Created:   %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Text:      %q\n", run.Text)
	fmt.Fprintf(out, "Span:      [%d,%d]\n", run.Lower, run.Upper)
	fmt.Fprintf(out, "State:     %s\n", run.State)
	fmt.Fprintf(out, "Sentences: %d\n", run.Sentences)
	fmt.Fprintf(out, "Fragments: %d (%d gaps)\n", run.Fragments, run.Gaps)
	fmt.Fprintf(out, "Nodes:     %d in %d passes\n", run.Nodes, run.Passes)
	if run.BudgetStopped {
		pterm.Warning.Println("Stopped by budget")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
