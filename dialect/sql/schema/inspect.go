// Package schema inspects database schemas through atlas and converts them
// into load.TableData.
package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	"go.uber.org/zap"

	"github.com/syssam/sqlauto/compiler/load"
	"github.com/syssam/sqlauto/dialect"
	"github.com/syssam/sqlauto/dialect/sql"
)

// Inspector reads the tables of a database schema into load.TableData.
type Inspector struct {
	dialect string
	atlas   migrate.Driver
	conn    *sql.StatsConn
	slow    time.Duration
	schema  string
	tables  []string
	skip    []string
	views   bool
	log     *zap.Logger
}

// InspectOption configures an Inspector.
type InspectOption func(*Inspector)

// WithSchema sets the schema to inspect. Defaults to the connection's
// current schema.
func WithSchema(name string) InspectOption {
	return func(i *Inspector) {
		i.schema = name
	}
}

// WithTables restricts inspection to the given tables.
func WithTables(tables ...string) InspectOption {
	return func(i *Inspector) {
		i.tables = append(i.tables, tables...)
	}
}

// WithSkipTables excludes the given tables.
func WithSkipTables(tables ...string) InspectOption {
	return func(i *Inspector) {
		i.skip = append(i.skip, tables...)
	}
}

// WithViews also inspects views.
func WithViews(b bool) InspectOption {
	return func(i *Inspector) {
		i.views = b
	}
}

// WithSlowThreshold sets the duration above which introspection queries
// are logged as slow.
func WithSlowThreshold(d time.Duration) InspectOption {
	return func(i *Inspector) {
		i.slow = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) InspectOption {
	return func(i *Inspector) {
		if l != nil {
			i.log = l
		}
	}
}

// NewInspector returns an Inspector for the driver's dialect. Opening the
// atlas driver queries the server version.
func NewInspector(drv *sql.Driver, opts ...InspectOption) (*Inspector, error) {
	i := &Inspector{dialect: drv.Dialect(), log: zap.NewNop(), slow: time.Second}
	for _, opt := range opts {
		opt(i)
	}
	i.conn = sql.NewStatsConn(drv.DB(), sql.WithQueryLogger(i.log), sql.WithSlowThreshold(i.slow))
	var err error
	switch i.dialect {
	case dialect.Postgres:
		i.atlas, err = postgres.Open(i.conn)
	case dialect.MySQL, dialect.MariaDB:
		i.atlas, err = mysql.Open(i.conn)
	case dialect.SQLite:
		i.atlas, err = sqlite.Open(i.conn)
	default:
		return nil, fmt.Errorf("sql/schema: unsupported dialect %q", i.dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("sql/schema: open %s inspector: %w", i.dialect, err)
	}
	return i, nil
}

// Inspect reads the configured schema.
func (i *Inspector) Inspect(ctx context.Context) (*load.TableData, error) {
	i.conn.QueryStats().Reset()
	mode := schema.InspectTables
	if i.views {
		mode |= schema.InspectViews
	}
	s, err := i.atlas.InspectSchema(ctx, i.schema, &schema.InspectOptions{
		Mode:   mode,
		Tables: i.tables,
	})
	if err != nil {
		return nil, fmt.Errorf("sql/schema: inspect schema %q: %w", i.schema, err)
	}
	td := i.convert(s)
	i.log.Info("schema inspected",
		zap.String("dialect", i.dialect),
		zap.String("schema", s.Name),
		zap.Int("tables", len(td.Tables)),
		zap.Stringer("queries", i.conn.QueryStats().Stats()),
	)
	return td, nil
}

// QueryStats returns the statistics of the queries of the last Inspect.
func (i *Inspector) QueryStats() sql.StatsSnapshot {
	return i.conn.QueryStats().Stats()
}

// schemaName is the schema tables are qualified with. SQLite has none.
func (i *Inspector) schemaName(s *schema.Schema) string {
	if s == nil || i.dialect == dialect.SQLite {
		return ""
	}
	return s.Name
}

func (i *Inspector) convert(s *schema.Schema) *load.TableData {
	td := &load.TableData{
		Tables:      make(map[string]*load.Table),
		Text:        make(map[string]string),
		ForeignKeys: make(map[string]map[string]*load.ForeignKey),
	}
	for _, t := range s.Tables {
		if slices.Contains(i.skip, t.Name) {
			i.log.Debug("table skipped", zap.String("table", t.Name))
			continue
		}
		lt, fks := i.table(t)
		td.Tables[load.QName(lt.Schema, lt.Name)] = lt
		td.ForeignKeys[lt.Name] = fks
	}
	for _, v := range s.Views {
		if slices.Contains(i.skip, v.Name) {
			continue
		}
		lt := &load.Table{Schema: i.schemaName(s), Name: v.Name, Comment: comment(v.Attrs), View: true}
		for _, c := range v.Columns {
			lt.Columns = append(lt.Columns, column(c))
		}
		td.Tables[load.QName(lt.Schema, lt.Name)] = lt
		td.ForeignKeys[lt.Name] = make(map[string]*load.ForeignKey)
	}
	return td
}

func (i *Inspector) table(t *schema.Table) (*load.Table, map[string]*load.ForeignKey) {
	var (
		sname  = i.schemaName(t.Schema)
		lt     = &load.Table{Schema: sname, Name: t.Name, Comment: comment(t.Attrs)}
		fks    = make(map[string]*load.ForeignKey)
		pks    = keyColumns(t.PrimaryKey)
		unique = make(map[string]bool)
	)
	for _, idx := range t.Indexes {
		if cols := keyColumns(idx); idx.Unique && len(cols) == 1 {
			unique[cols[0]] = true
		}
	}
	keyOf := func(col string) *load.ForeignKey {
		fk, ok := fks[col]
		if !ok {
			fk = &load.ForeignKey{
				SourceSchema: sname,
				SourceTable:  t.Name,
				SourceColumn: col,
				IsPrimaryKey: slices.Contains(pks, col),
				IsUnique:     unique[col],
			}
			fks[col] = fk
		}
		return fk
	}
	for _, c := range t.Columns {
		lc := column(c)
		lc.PrimaryKey = slices.Contains(pks, c.Name)
		if !lc.AutoIncrement && i.dialect == dialect.SQLite && len(pks) == 1 && lc.PrimaryKey {
			// INTEGER PRIMARY KEY aliases the rowid.
			lc.AutoIncrement = strings.EqualFold(lc.Type, "integer")
		}
		lt.Columns = append(lt.Columns, lc)
		if lc.PrimaryKey || unique[c.Name] || lc.AutoIncrement {
			keyOf(c.Name).IsSerialKey = lc.AutoIncrement
		}
	}
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == nil {
			continue
		}
		for j, c := range fk.Columns {
			if j >= len(fk.RefColumns) {
				break
			}
			s := keyOf(c.Name)
			s.ConstraintName = fk.Symbol
			s.IsForeignKey = true
			s.TargetSchema = i.schemaName(fk.RefTable.Schema)
			s.TargetTable = fk.RefTable.Name
			s.TargetColumn = fk.RefColumns[j].Name
			s.RuleUpdate = string(fk.OnUpdate)
			s.RuleDelete = string(fk.OnDelete)
		}
	}
	return lt, fks
}

func keyColumns(idx *schema.Index) []string {
	if idx == nil {
		return nil
	}
	var cols []string
	for _, p := range idx.Parts {
		if p.C != nil {
			cols = append(cols, p.C.Name)
		}
	}
	return cols
}

func column(c *schema.Column) *load.Column {
	lc := &load.Column{
		Name:          c.Name,
		Comment:       comment(c.Attrs),
		AutoIncrement: autoIncrement(c),
	}
	if c.Type != nil {
		lc.Type = typeRaw(c.Type)
		lc.AllowNull = c.Type.Null
	}
	switch d := c.Default.(type) {
	case *schema.RawExpr:
		lc.DefaultValue = &d.X
		if strings.HasPrefix(strings.ToLower(d.X), "nextval(") {
			lc.AutoIncrement = true
		}
	case *schema.Literal:
		lc.DefaultValue = &d.V
	}
	return lc
}

func autoIncrement(c *schema.Column) bool {
	for _, a := range c.Attrs {
		switch a.(type) {
		case *sqlite.AutoIncrement, *mysql.AutoIncrement, *postgres.Identity:
			return true
		}
	}
	return false
}

func comment(attrs []schema.Attr) string {
	for _, a := range attrs {
		if c, ok := a.(*schema.Comment); ok {
			return c.Text
		}
	}
	return ""
}

// typeRaw returns the column type as the database reported it, or as
// rebuilt from the parsed type when the raw form is missing.
func typeRaw(ct *schema.ColumnType) string {
	if ct.Raw != "" {
		return ct.Raw
	}
	switch t := ct.Type.(type) {
	case *schema.StringType:
		if t.Size > 0 {
			return fmt.Sprintf("%s(%d)", t.T, t.Size)
		}
		return t.T
	case *schema.DecimalType:
		if t.Precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", t.T, t.Precision, t.Scale)
		}
		return t.T
	case *schema.EnumType:
		vals := make([]string, len(t.Values))
		for i, v := range t.Values {
			vals[i] = "'" + v + "'"
		}
		return fmt.Sprintf("enum(%s)", strings.Join(vals, ","))
	case *schema.IntegerType:
		return t.T
	case *schema.BoolType:
		return t.T
	case *schema.FloatType:
		return t.T
	case *schema.TimeType:
		return t.T
	case *schema.JSONType:
		return t.T
	case *schema.BinaryType:
		return t.T
	case *schema.UUIDType:
		return t.T
	case *schema.UnsupportedType:
		return t.T
	default:
		return ""
	}
}
