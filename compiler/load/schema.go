package load

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TableData is the introspection result handed to the code generator.
// Tables and Text are keyed by the qualified table name ("schema.table"),
// ForeignKeys by the unqualified table name.
type TableData struct {
	Tables      map[string]*Table                 `json:"tables,omitempty" yaml:"tables,omitempty" msgpack:"tables,omitempty"`
	Text        map[string]string                 `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	ForeignKeys map[string]map[string]*ForeignKey `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty" msgpack:"foreignKeys,omitempty"`
	Relations   []*Relation                       `json:"relations,omitempty" yaml:"relations,omitempty" msgpack:"relations,omitempty"`
}

// Table describes an introspected table.
type Table struct {
	Schema  string    `json:"schema,omitempty" yaml:"schema,omitempty" msgpack:"schema,omitempty"`
	Name    string    `json:"name" yaml:"name" msgpack:"name"`
	Comment string    `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	View    bool      `json:"view,omitempty" yaml:"view,omitempty" msgpack:"view,omitempty"`
	Columns []*Column `json:"columns,omitempty" yaml:"columns,omitempty" msgpack:"columns,omitempty"`
}

// Column describes a table column.
type Column struct {
	Name          string  `json:"name" yaml:"name" msgpack:"name"`
	Type          string  `json:"type" yaml:"type" msgpack:"type"`
	AllowNull     bool    `json:"allowNull,omitempty" yaml:"allowNull,omitempty" msgpack:"allowNull,omitempty"`
	DefaultValue  *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" msgpack:"defaultValue,omitempty"`
	PrimaryKey    bool    `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty" msgpack:"primaryKey,omitempty"`
	AutoIncrement bool    `json:"autoIncrement,omitempty" yaml:"autoIncrement,omitempty" msgpack:"autoIncrement,omitempty"`
	Comment       string  `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
}

// ForeignKey holds the key metadata of a single column: its foreign-key
// target (if any), key flags and the referential actions of its constraint.
type ForeignKey struct {
	ConstraintName string `json:"constraint_name,omitempty" yaml:"constraint_name,omitempty" msgpack:"constraint_name,omitempty"`
	SourceSchema   string `json:"source_schema,omitempty" yaml:"source_schema,omitempty" msgpack:"source_schema,omitempty"`
	SourceTable    string `json:"source_table,omitempty" yaml:"source_table,omitempty" msgpack:"source_table,omitempty"`
	SourceColumn   string `json:"source_column,omitempty" yaml:"source_column,omitempty" msgpack:"source_column,omitempty"`
	TargetSchema   string `json:"target_schema,omitempty" yaml:"target_schema,omitempty" msgpack:"target_schema,omitempty"`
	TargetTable    string `json:"target_table,omitempty" yaml:"target_table,omitempty" msgpack:"target_table,omitempty"`
	TargetColumn   string `json:"target_column,omitempty" yaml:"target_column,omitempty" msgpack:"target_column,omitempty"`
	IsForeignKey   bool   `json:"isForeignKey,omitempty" yaml:"isForeignKey,omitempty" msgpack:"isForeignKey,omitempty"`
	IsPrimaryKey   bool   `json:"isPrimaryKey,omitempty" yaml:"isPrimaryKey,omitempty" msgpack:"isPrimaryKey,omitempty"`
	IsUnique       bool   `json:"isUnique,omitempty" yaml:"isUnique,omitempty" msgpack:"isUnique,omitempty"`
	IsSerialKey    bool   `json:"isSerialKey,omitempty" yaml:"isSerialKey,omitempty" msgpack:"isSerialKey,omitempty"`
	RuleUpdate     string `json:"rule_update,omitempty" yaml:"rule_update,omitempty" msgpack:"rule_update,omitempty"`
	RuleDelete     string `json:"rule_delete,omitempty" yaml:"rule_delete,omitempty" msgpack:"rule_delete,omitempty"`
}

// Relation is one directed association between two models, inferred from
// a foreign key or, for many-to-many, from a junction table.
type Relation struct {
	ParentTable string `json:"parentTable" yaml:"parentTable" msgpack:"parentTable"`
	ParentModel string `json:"parentModel" yaml:"parentModel" msgpack:"parentModel"`
	ParentProp  string `json:"parentProp" yaml:"parentProp" msgpack:"parentProp"`
	ParentID    string `json:"parentId" yaml:"parentId" msgpack:"parentId"`
	ChildTable  string `json:"childTable" yaml:"childTable" msgpack:"childTable"`
	ChildModel  string `json:"childModel" yaml:"childModel" msgpack:"childModel"`
	ChildProp   string `json:"childProp" yaml:"childProp" msgpack:"childProp"`
	ChildID     string `json:"childId,omitempty" yaml:"childId,omitempty" msgpack:"childId,omitempty"`
	JoinModel   string `json:"joinModel,omitempty" yaml:"joinModel,omitempty" msgpack:"joinModel,omitempty"`
	IsM2M       bool   `json:"isM2M,omitempty" yaml:"isM2M,omitempty" msgpack:"isM2M,omitempty"`
	IsOne       bool   `json:"isOne,omitempty" yaml:"isOne,omitempty" msgpack:"isOne,omitempty"`
}

// ErrMissingMetadata is matched by every MissingTableError.
var ErrMissingMetadata = errors.New("sqlauto: missing table metadata")

// MissingTableError reports a relation that references a table or
// foreign-key column absent from the table data.
type MissingTableError struct {
	Relation int    // index in TableData.Relations, -1 if unknown
	Map      string // "text" or "foreignKeys"
	Table    string
	Column   string
}

// Error implements the error interface.
func (e *MissingTableError) Error() string {
	var b strings.Builder
	b.WriteString("sqlauto: relation")
	if e.Relation >= 0 {
		fmt.Fprintf(&b, " #%d", e.Relation)
	}
	fmt.Fprintf(&b, " references table %q", e.Table)
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	fmt.Fprintf(&b, " missing from %s", e.Map)
	return b.String()
}

// Is reports whether the target matches ErrMissingMetadata.
func (e *MissingTableError) Is(target error) bool {
	return target == ErrMissingMetadata
}

// IsMissingTable reports whether err is a MissingTableError.
func IsMissingTable(err error) bool {
	var e *MissingTableError
	return errors.As(err, &e)
}

// SplitQName splits a qualified table name into schema and table.
// A name without a schema returns an empty schema.
func SplitQName(qname string) (schema, table string) {
	if i := strings.IndexByte(qname, '.'); i > 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// QName joins schema and table into a qualified name.
func QName(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}

// TableNames returns the keys of Text in sorted order.
func (td *TableData) TableNames() []string {
	names := make([]string, 0, len(td.Text))
	for name := range td.Text {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForeignKey returns the key metadata of column in the unqualified table.
func (td *TableData) ForeignKey(table, column string) (*ForeignKey, bool) {
	cols, ok := td.ForeignKeys[table]
	if !ok {
		return nil, false
	}
	fk, ok := cols[column]
	return fk, ok
}

// Validate checks that every table named by a relation is present in Text
// and ForeignKeys, and that the foreign-key column of every non
// many-to-many relation exists on its child table.
func (td *TableData) Validate() error {
	for i, r := range td.Relations {
		for _, qname := range []string{r.ParentTable, r.ChildTable} {
			if _, ok := td.Text[qname]; !ok {
				return &MissingTableError{Relation: i, Map: "text", Table: qname}
			}
			_, name := SplitQName(qname)
			if _, ok := td.ForeignKeys[name]; !ok {
				return &MissingTableError{Relation: i, Map: "foreignKeys", Table: name}
			}
		}
		if r.IsM2M {
			continue
		}
		_, child := SplitQName(r.ChildTable)
		if _, ok := td.ForeignKey(child, r.ParentID); !ok {
			return &MissingTableError{Relation: i, Map: "foreignKeys", Table: child, Column: r.ParentID}
		}
	}
	return nil
}
