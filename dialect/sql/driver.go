package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/sqlauto/dialect"
)

// Driver is an open database connection of a known dialect.
type Driver struct {
	db      *sql.DB
	dialect string
	name    string
}

// Open opens a connection for the given dialect. The name may also be a
// database/sql driver name: "pgx" selects jackc/pgx instead of lib/pq for
// PostgreSQL. The connection is not established until first use.
func Open(name, source string) (*Driver, error) {
	d, err := dialect.Parse(name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(name) {
	case "pgx":
		cfg, err := pgx.ParseConfig(source)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: parse pgx dsn: %w", err)
		}
		return &Driver{db: stdlib.OpenDB(*cfg), dialect: d, name: "pgx"}, nil
	case dialect.MySQL, dialect.MariaDB:
		cfg, err := mysql.ParseDSN(source)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: parse mysql dsn: %w", err)
		}
		// Scan DATETIME columns into time.Time.
		cfg.ParseTime = true
		source = cfg.FormatDSN()
	}
	drv := driverName(d)
	db, err := sql.Open(drv, source)
	if err != nil {
		return nil, err
	}
	return &Driver{db: db, dialect: d, name: drv}, nil
}

// OpenDB wraps an already opened *sql.DB.
func OpenDB(d string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: d, name: driverName(d)}
}

func driverName(d string) string {
	switch d {
	case dialect.MySQL, dialect.MariaDB:
		return "mysql"
	case dialect.SQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name.
func (d *Driver) Dialect() string { return d.dialect }

// DriverName returns the database/sql driver the connection uses.
func (d *Driver) DriverName() string { return d.name }

// Ping verifies the connection is alive.
func (d *Driver) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }

// Version returns the server version string.
func (d *Driver) Version(ctx context.Context) (string, error) {
	var q string
	switch d.dialect {
	case dialect.MySQL, dialect.MariaDB:
		q = "SELECT VERSION()"
	case dialect.SQLite:
		q = "SELECT sqlite_version()"
	default:
		q = "SELECT version()"
	}
	var v string
	if err := d.db.QueryRowContext(ctx, q).Scan(&v); err != nil {
		return "", fmt.Errorf("dialect/sql: query version: %w", err)
	}
	return v, nil
}
