package quotes

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimescaleSource_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	src, err := NewTimescaleSourceFromDB(db, "bars_1d")
	require.NoError(t, err)

	end := day0.AddDate(0, 0, 2)
	mock.ExpectQuery(`SELECT timestamp, close\s+FROM bars_1d\s+WHERE symbol = \$1`).
		WithArgs("AAPL", day0, end).
		WillReturnRows(sqlmock.NewRows([]string{"timestamp", "close"}).
			AddRow(day0, 91.03).
			AddRow(day0.AddDate(0, 0, 1), 0.0).
			AddRow(end, 93.46))

	quotes, err := src.History(context.Background(), "AAPL", day0, end)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "AAPL", quotes[0].Symbol)
	assert.Equal(t, 91.03, quotes[0].AdjClose)
	assert.Equal(t, 0.0, quotes[1].AdjClose)
	assert.True(t, quotes[2].Timestamp.Equal(end))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimescaleSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	src, err := NewTimescaleSourceFromDB(db, "market.bars_1d")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM market\.bars_1d`).WillReturnError(errors.New("connection reset"))

	_, err = src.History(context.Background(), "AAPL", day0, day0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query bars")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimescaleSource_EmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	src, err := NewTimescaleSourceFromDB(db, "bars_1d")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM bars_1d`).WillReturnRows(sqlmock.NewRows([]string{"timestamp", "close"}))

	quotes, err := src.History(context.Background(), "NONE", day0, day0)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestNewTimescaleSourceFromDB_RejectsBadTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"", "bars; DROP TABLE bars", "1bars", "a.b.c"} {
		_, err := NewTimescaleSourceFromDB(db, table)
		assert.Error(t, err, table)
	}
}
