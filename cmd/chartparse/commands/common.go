package commands

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/db"
	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/engine"
)

// openDatabase opens and migrates the database at dbPath, or at the
// configured path when dbPath is empty.
func openDatabase(cfg *am.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}

// newEngine loads configuration and builds an engine, attaching the
// database when withDB is set. The returned close func releases it.
func newEngine(ctx context.Context, withDB bool, opts ...engine.Option) (*engine.Engine, *am.Config, func(), error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to load configuration")
	}

	closeFn := func() {}
	if withDB || cfg.Grammar.TableName != "" {
		database, err := openDatabase(cfg, "")
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn = func() { database.Close() }
		opts = append(opts, engine.WithDB(database))
	}

	eng, err := engine.New(ctx, cfg, opts...)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return eng, cfg, closeFn, nil
}

// parseSpan reads "lower,upper" or "lower:upper".
func parseSpan(s string) (*chart.Span, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ':' })
	if len(parts) != 2 {
		return nil, errors.WithHint(
			errors.Newf("invalid span %q", s),
			"Use --span lower,upper with inclusive byte offsets")
	}
	lower, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid span lower bound %q", parts[0])
	}
	upper, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid span upper bound %q", parts[1])
	}
	return &chart.Span{Lower: lower, Upper: upper}, nil
}
