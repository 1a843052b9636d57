package grammar

import (
	"context"
	"database/sql"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/feature"
)

// DefaultName is the grammar name used when none is given.
const DefaultName = "default"

// SaveTable replaces the stored rules of a named grammar with t's rules.
func SaveTable(ctx context.Context, db *sql.DB, name string, t *Table) error {
	if name == "" {
		name = DefaultName
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin grammar save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM grammar_rules WHERE grammar = ?`, name); err != nil {
		return errors.Wrapf(err, "failed to clear grammar %s", name)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO grammar_rules (grammar, left_feature, right_feature, target_feature, count)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare grammar insert")
	}
	defer stmt.Close()

	rules := t.Rules()
	for _, r := range rules {
		if _, err := stmt.ExecContext(ctx, name,
			string(r.Left.Code()), string(r.Right.Code()), string(r.Target.Code()), r.Count); err != nil {
			return errors.Wrapf(err, "failed to save rule %s", r)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit grammar %s", name)
	}

	logger.ComponentLogger("syn.grammar").Infow("Saved grammar",
		"grammar", name,
		logger.FieldCount, len(rules))
	return nil
}

// LoadTable reads a named grammar. A grammar with no rows is ErrNotFound.
func LoadTable(ctx context.Context, db *sql.DB, name string) (*Table, error) {
	if name == "" {
		name = DefaultName
	}

	rows, err := db.QueryContext(ctx, `
		SELECT left_feature, right_feature, target_feature, count
		FROM grammar_rules WHERE grammar = ?`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load grammar %s", name)
	}
	defer rows.Close()

	t := New()
	n := 0
	for rows.Next() {
		var left, right, target string
		var count int
		if err := rows.Scan(&left, &right, &target, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan grammar rule")
		}
		if len(left) != 1 || len(right) != 1 || len(target) != 1 {
			logger.Warnw("Skipping malformed stored rule",
				"grammar", name, "left", left, "right", right, "target", target)
			continue
		}
		t.Set(feature.Lookup(left[0]), feature.Lookup(right[0]), feature.Lookup(target[0]), count)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate grammar rules")
	}
	if n == 0 {
		return nil, errors.NewNotFoundError("grammar %s", name)
	}
	return t, nil
}
