package adapter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestBaseSQLAdapter_OpenDB(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     func(t *testing.T) string
		wantErr string
	}{
		{
			name:   "in-memory store",
			driver: "sqlite",
			dsn:    func(*testing.T) string { return ":memory:" },
		},
		{
			name:   "file store",
			driver: "sqlite",
			dsn:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "coins.db") },
		},
		{
			name:    "unknown driver",
			driver:  "nosuchdriver",
			dsn:     func(*testing.T) string { return "dsn" },
			wantErr: "failed to open nosuchdriver connection",
		},
		{
			name:    "unreachable store",
			driver:  "sqlite",
			dsn:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing", "coins.db") },
			wantErr: "failed to ping sqlite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewBase(nil)
			err := base.OpenDB(context.Background(), tt.driver, tt.dsn(t))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, base.DB, "no connection is kept after a failed open")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, base.DB)
			defer func() { _ = base.Close() }()
			assert.Equal(t, 1, base.DB.Stats().MaxOpenConnections)
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	cause := errors.New("no such table: coin")

	tests := []struct {
		name      string
		connected bool
		setup     func(mock sqlmock.Sqlmock)
		wantCols  []string
		wantErr   string
	}{
		{
			name:    "not connected",
			wantErr: "database connection not established",
		},
		{
			name:      "rows returned",
			connected: true,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, symbol FROM coin").WillReturnRows(
					sqlmock.NewRows([]string{"id", "symbol"}).AddRow(int64(1), "BTC"),
				)
			},
			wantCols: []string{"id", "symbol"},
		},
		{
			name:      "statement rejected",
			connected: true,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, symbol FROM coin").WillReturnError(cause)
			},
			wantErr: "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewBase(nil)
			if tt.connected {
				db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })
				tt.setup(mock)
				base.DB = db
			}

			rows, err := base.Query(context.Background(), "SELECT id, symbol FROM coin")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, rows)
				assert.Contains(t, err.Error(), tt.wantErr)
				if tt.connected {
					assert.ErrorIs(t, err, cause)
				}
				return
			}

			require.NoError(t, err)
			defer func() { _ = rows.Close() }()
			cols, err := rows.Columns()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, cols)
		})
	}
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	t.Run("never opened", func(t *testing.T) {
		base := NewBase(nil)
		assert.NoError(t, base.Close())
	})

	t.Run("releases the connection", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		base := NewBase(nil)
		base.DB = db
		require.NoError(t, base.Close())
		assert.NoError(t, mock.ExpectationsWereMet())

		_, err = base.Query(context.Background(), "SELECT 1")
		assert.Error(t, err, "a closed store rejects further queries")
	})
}

func TestBaseSQLAdapter_OpenQueryDecodeClose(t *testing.T) {
	ctx := context.Background()
	base := NewBase(nil)
	require.NoError(t, base.OpenDB(ctx, "sqlite", ":memory:"))

	rows, err := base.Query(ctx, "SELECT 1 AS id, 'BTC' AS symbol, NULL AS label")
	require.NoError(t, err)

	d, err := NewRowDecoder(rows.Rows)
	require.NoError(t, err)
	require.True(t, rows.Next())
	row, err := d.Decode()
	require.NoError(t, err)
	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	assert.Equal(t, core.Row{
		{Column: core.ColumnDescriptor{Name: "id"}, Value: core.Integer(1)},
		{Column: core.ColumnDescriptor{Name: "symbol"}, Value: core.Bytes([]byte("BTC"))},
		{Column: core.ColumnDescriptor{Name: "label"}, Value: core.Null()},
	}, row)

	require.NoError(t, base.Close())
}
