package grammar

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chartparse/errors"
	testdb "github.com/teranos/chartparse/internal/testing"
	"github.com/teranos/chartparse/syn/feature"
)

func TestSaveAndLoadTable(t *testing.T) {
	db := testdb.CreateTestDB(t)
	ctx := context.Background()

	tbl := New()
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	tbl.Train(feature.Determiner, feature.Noun, feature.NP)
	tbl.Train(feature.NP, feature.VP, feature.S)
	tbl.Train(feature.Verb, feature.Null, feature.VP)

	require.NoError(t, SaveTable(ctx, db, "", tbl))

	loaded, err := LoadTable(ctx, db, DefaultName)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rules(), loaded.Rules())

	// saving again replaces rather than accumulates
	require.NoError(t, SaveTable(ctx, db, DefaultName, tbl))
	loaded, err = LoadTable(ctx, db, "")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Count(feature.Determiner, feature.Noun, feature.NP))
}

func TestLoadTableMissing(t *testing.T) {
	db := testdb.CreateTestDB(t)
	_, err := LoadTable(context.Background(), db, "french")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSaveTableRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tbl := New()
	tbl.Train(feature.Noun, feature.Null, feature.NP)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM grammar_rules").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare("INSERT INTO grammar_rules").
		ExpectExec().
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = SaveTable(context.Background(), db, "en", tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save rule")
	assert.NoError(t, mock.ExpectationsWereMet())
}
