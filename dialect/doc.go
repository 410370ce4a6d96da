// Package dialect names the database dialects sqlauto can introspect.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL, through lib/pq or pgx
//   - MySQL and MariaDB: through go-sql-driver/mysql
//   - SQLite: through modernc.org/sqlite
//
// # Usage
//
// Opening a database connection and reading its schema:
//
//	import (
//	    "github.com/syssam/sqlauto/dialect"
//	    "github.com/syssam/sqlauto/dialect/sql"
//	    "github.com/syssam/sqlauto/dialect/sql/schema"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	insp, err := schema.NewInspector(drv, schema.WithSchema("public"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	td, err := insp.Inspect(ctx)
//
// # Sub-packages
//
//   - dialect/sql: driver opening and server version probing
//   - dialect/sql/schema: schema introspection into load.TableData
package dialect
