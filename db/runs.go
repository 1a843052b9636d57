package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/teranos/chartparse/errors"
)

// Run is the audit record of one parse.
type Run struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Lower         int       `json:"lower"`
	Upper         int       `json:"upper"`
	State         string    `json:"state"`
	Sentences     int       `json:"sentences"`
	Fragments     int       `json:"fragments"`
	Gaps          int       `json:"gaps"`
	Nodes         int       `json:"nodes"`
	Passes        int       `json:"passes"`
	BudgetStopped bool      `json:"budget_stopped"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// RunStore persists parse runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore wraps an open, migrated database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Save inserts a run. CreatedAt defaults to now when zero.
func (s *RunStore) Save(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.NewInvalidRequestError("parse run without id")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parse_runs (id, text, lower_bound, upper_bound, state, sentences,
			fragments, gaps, nodes, passes, budget_stopped, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Text, run.Lower, run.Upper, run.State, run.Sentences,
		run.Fragments, run.Gaps, run.Nodes, run.Passes, run.BudgetStopped,
		run.DurationMS, run.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "failed to save parse run %s", run.ID)
	}
	return nil
}

const runColumns = `id, text, lower_bound, upper_bound, state, sentences, fragments,
	gaps, nodes, passes, budget_stopped, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Text, &r.Lower, &r.Upper, &r.State, &r.Sentences,
		&r.Fragments, &r.Gaps, &r.Nodes, &r.Passes, &r.BudgetStopped,
		&r.DurationMS, &r.CreatedAt)
	return r, err
}

// Get loads one run by id.
func (s *RunStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM parse_runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("parse run %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load parse run %s", id)
	}
	return &r, nil
}

// Recent lists the newest runs first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM parse_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list parse runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan parse run")
		}
		runs = append(runs, r)
	}
	return runs, errors.Wrap(rows.Err(), "failed to iterate parse runs")
}
