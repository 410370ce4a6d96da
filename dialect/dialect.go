package dialect

import (
	"fmt"
	"strings"
)

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	MariaDB  = "mariadb"
	SQLite   = "sqlite"
)

// Dialects lists the supported dialect names.
var Dialects = []string{Postgres, MySQL, MariaDB, SQLite}

// Parse returns the dialect name for s, accepting common aliases
// such as "postgresql", "pgx" or "sqlite3".
func Parse(s string) (string, error) {
	switch strings.ToLower(s) {
	case Postgres, "postgresql", "pgx":
		return Postgres, nil
	case MySQL:
		return MySQL, nil
	case MariaDB:
		return MariaDB, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("dialect: unsupported dialect %q", s)
	}
}
