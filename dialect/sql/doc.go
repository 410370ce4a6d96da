// Package sql opens database connections for the supported dialects.
//
// Open maps a dialect name to a registered database/sql driver:
//
//	postgres, postgresql -> github.com/lib/pq
//	pgx                  -> github.com/jackc/pgx/v5/stdlib
//	mysql, mariadb       -> github.com/go-sql-driver/mysql
//	sqlite, sqlite3      -> modernc.org/sqlite
//
// The returned Driver exposes the underlying *sql.DB for schema
// inspection and can report the server version:
//
//	drv, err := sql.Open("pgx", os.Getenv("SQLAUTO_DSN"))
//	if err != nil {
//		return err
//	}
//	defer drv.Close()
//	v, err := drv.Version(ctx)
//
// StatsConn wraps a connection to count statements and log slow ones. The
// schema inspector runs all introspection queries through one.
package sql
