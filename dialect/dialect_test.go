package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]string{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"pgx":        Postgres,
		"mysql":      MySQL,
		"mariadb":    MariaDB,
		"sqlite":     SQLite,
		"sqlite3":    SQLite,
	}
	for in, want := range tests {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("oracle")
	assert.EqualError(t, err, `dialect: unsupported dialect "oracle"`)
}
