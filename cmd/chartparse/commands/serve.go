package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/metrics"
	"github.com/teranos/chartparse/server"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/engine"
	"github.com/teranos/chartparse/syn/parser"
)

// ServeCmd starts the HTTP parse API
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the HTTP parse API",
	Long: `Start the HTTP API: POST /parse, GET /grammar/rules, GET /runs,
GET /health and GET /metrics.

The am.toml files and the grammar corpus are watched; edits rebuild the
parser without a restart.`,
	RunE: runServe,
}

var (
	servePortFlag int
	serveNoDBFlag bool
	serveNoWatch  bool
)

func init() {
	ServeCmd.Flags().IntVar(&servePortFlag, "port", 0, "Port to listen on (overrides server.port)")
	ServeCmd.Flags().BoolVar(&serveNoDBFlag, "no-db", false, "Do not record parse runs")
	ServeCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload on config or corpus changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.ComponentLogger("serve")
	hook := parser.HookFunc(func(c *chart.Chart, id chart.NodeID) bool {
		log.Debugw("Sentence", "tree", c.Bracket(id))
		return true
	})

	eng, cfg, closeFn, err := newEngine(ctx, !serveNoDBFlag, engine.WithHook(hook))
	if err != nil {
		return err
	}
	defer closeFn()

	if !serveNoWatch {
		if watcher := watchConfig(cfg, eng); watcher != nil {
			defer watcher.Stop()
		}
	}

	port := cfg.GetServerPort()
	if servePortFlag != 0 {
		port = servePortFlag
	}

	pterm.Info.Printfln("chartparse API on port %d", port)
	err = server.New(eng, cfg).Start(ctx, port)
	log.Infow("Server exited", "session_sentences", metrics.SessionSentences())
	return err
}

// watchConfig reloads eng when an am.toml or the corpus changes. Failures
// to watch are logged; serving continues without reloads.
func watchConfig(cfg *am.Config, eng *engine.Engine) *am.ConfigWatcher {
	var paths []string
	if p := am.ProjectConfigPath(); p != "" {
		paths = append(paths, p)
	}
	if dir := am.UserConfigDir(); dir != "" {
		p := filepath.Join(dir, am.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	if cfg.Grammar.CorpusPath != "" {
		paths = append(paths, cfg.Grammar.CorpusPath)
	}
	if len(paths) == 0 {
		return nil
	}

	watcher, err := am.NewConfigWatcher(cfg.Server.ReloadPerMinute, paths...)
	if err != nil {
		logger.Warnw("Config watching disabled", logger.FieldError, err)
		return nil
	}
	watcher.OnReload(func(newCfg *am.Config) error {
		return eng.Reload(context.Background(), newCfg)
	})
	am.SetGlobalWatcher(watcher)
	watcher.Start()
	return watcher
}
