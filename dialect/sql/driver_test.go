package sql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlauto/dialect"
)

func TestDriverVersion(t *testing.T) {
	tests := []struct {
		dialect string
		query   string
		version string
	}{
		{dialect.Postgres, "SELECT version()", "PostgreSQL 16.2"},
		{dialect.MySQL, "SELECT VERSION()", "8.0.36"},
		{dialect.MariaDB, "SELECT VERSION()", "11.2.2-MariaDB"},
		{dialect.SQLite, "SELECT sqlite_version()", "3.45.1"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			drv := OpenDB(tt.dialect, db)
			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(tt.version))

			v, err := drv.Version(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.version, v)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDriverVersionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.Postgres, db)
	boom := errors.New("boom")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version()")).WillReturnError(boom)

	_, err = drv.Version(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestOpenDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.MariaDB, db)

	assert.Equal(t, dialect.MariaDB, drv.Dialect())
	assert.Equal(t, "mysql", drv.DriverName())
	assert.Same(t, db, drv.DB())

	mock.ExpectClose()
	require.NoError(t, drv.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		drv, err := Open("sqlite3", "file:open?mode=memory")
		require.NoError(t, err)
		defer drv.Close()

		assert.Equal(t, dialect.SQLite, drv.Dialect())
		assert.Equal(t, "sqlite", drv.DriverName())
		require.NoError(t, drv.Ping(context.Background()))
		v, err := drv.Version(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, v)
	})

	t.Run("postgres drivers", func(t *testing.T) {
		drv, err := Open(dialect.Postgres, "postgres://u:p@localhost:5432/db?sslmode=disable")
		require.NoError(t, err)
		assert.Equal(t, "postgres", drv.DriverName())
		require.NoError(t, drv.Close())

		drv, err = Open("pgx", "postgres://u:p@localhost:5432/db?sslmode=disable")
		require.NoError(t, err)
		assert.Equal(t, dialect.Postgres, drv.Dialect())
		assert.Equal(t, "pgx", drv.DriverName())
		require.NoError(t, drv.Close())
	})

	t.Run("mysql dsn", func(t *testing.T) {
		drv, err := Open(dialect.MySQL, "u:p@tcp(localhost:3306)/db")
		require.NoError(t, err)
		assert.Equal(t, "mysql", drv.DriverName())
		require.NoError(t, drv.Close())

		_, err = Open(dialect.MySQL, "not a dsn")
		assert.Error(t, err)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := Open("oracle", "")
		assert.Error(t, err)
	})
}
