package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/errors"
)

func TestRunStore_SaveAndGet(t *testing.T) {
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	store := NewRunStore(db)
	ctx := context.Background()

	first := Run{
		ID: "run-a", Text: "a house falls", Lower: 0, Upper: 12, State: "spanned",
		Sentences: 1, Nodes: 5, Passes: 3, DurationMS: 2,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	second := Run{
		ID: "run-b", Text: "house falls a", Upper: 12, State: "unspanned",
		Fragments: 2, Gaps: 1, Nodes: 4, Passes: 2, BudgetStopped: true,
		CreatedAt: first.CreatedAt.Add(time.Minute),
	}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, first.Text, got.Text)
	assert.Equal(t, 1, got.Sentences)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "run-b", recent[0].ID)
	assert.True(t, recent[0].BudgetStopped)

	_, err = store.Get(ctx, "missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRunStore_SaveRequiresID(t *testing.T) {
	store := NewRunStore(nil)
	err := store.Save(context.Background(), Run{Text: "x"})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestRunStore_SaveWrapsDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO parse_runs").
		WillReturnError(errors.New("disk I/O error"))

	err = NewRunStore(db).Save(context.Background(), Run{ID: "run-x", State: "spanned"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save parse run run-x")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_RecentQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .* FROM parse_runs ORDER BY").
		WillReturnError(errors.New("locked"))

	_, err = NewRunStore(db).Recent(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list parse runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}
