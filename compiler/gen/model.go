package gen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/sqlauto/compiler/load"
)

// RenderModels renders the model text of every table in td.Tables that has
// no text yet, and returns how many were rendered. Views are skipped
// unless cfg.Views is set.
func RenderModels(td *load.TableData, cfg *Config) int {
	if td.Text == nil {
		td.Text = make(map[string]string)
	}
	n := 0
	for _, q := range tableKeys(td.Tables) {
		t := td.Tables[q]
		if _, ok := td.Text[q]; ok || (t.View && !cfg.Views) {
			continue
		}
		td.Text[q] = RenderModel(t, td.ForeignKeys[t.Name], cfg)
		n++
	}
	return n
}

// RenderModel renders the model definition of a single table.
func RenderModel(t *load.Table, fks map[string]*load.ForeignKey, cfg *Config) string {
	m := &modelRender{cfg: cfg, t: t, fks: fks, name: cfg.ModelName(t.Name)}
	switch cfg.Lang {
	case LangTS:
		return m.ts()
	case LangESM:
		return m.esm()
	case LangES6:
		return m.define("const")
	default:
		return m.define("var")
	}
}

type modelRender struct {
	cfg  *Config
	t    *load.Table
	fks  map[string]*load.ForeignKey
	name string
	b    strings.Builder
}

func (m *modelRender) define(decl string) string {
	sp := m.cfg.Indent(1)
	fmt.Fprintf(&m.b, "%s Sequelize = require('sequelize');\n", decl)
	m.b.WriteString("module.exports = function(sequelize, DataTypes) {\n")
	fmt.Fprintf(&m.b, "%sreturn sequelize.define('%s', {\n", sp, m.name)
	m.attributes(2)
	fmt.Fprintf(&m.b, "%s}, {\n", sp)
	m.options(2)
	fmt.Fprintf(&m.b, "%s});\n", sp)
	m.b.WriteString("};\n")
	return m.b.String()
}

func (m *modelRender) esm() string {
	sp, sp2 := m.cfg.Indent(1), m.cfg.Indent(2)
	m.b.WriteString("import _sequelize from 'sequelize';\n")
	m.b.WriteString("const { Model, Sequelize } = _sequelize;\n\n")
	fmt.Fprintf(&m.b, "export default class %s extends Model {\n", m.name)
	fmt.Fprintf(&m.b, "%sstatic init(sequelize, DataTypes) {\n", sp)
	fmt.Fprintf(&m.b, "%sreturn super.init({\n", sp2)
	m.attributes(3)
	fmt.Fprintf(&m.b, "%s}, {\n", sp2)
	m.options(3)
	fmt.Fprintf(&m.b, "%s});\n", sp2)
	fmt.Fprintf(&m.b, "%s}\n", sp)
	m.b.WriteString("}\n")
	return m.b.String()
}

func (m *modelRender) ts() string {
	var (
		sp, sp2  = m.cfg.Indent(1), m.cfg.Indent(2)
		n        = m.name
		pks      []string
		optional []string
	)
	m.b.WriteString("import * as Sequelize from 'sequelize';\n")
	m.b.WriteString("import { DataTypes, Model, Optional } from 'sequelize';\n\n")
	fmt.Fprintf(&m.b, "export interface %sAttributes {\n", n)
	for _, c := range m.t.Columns {
		attr := m.attrName(c)
		opt := ""
		if c.AllowNull {
			opt = "?"
		}
		fmt.Fprintf(&m.b, "%s%s%s: %s;\n", sp, attr, opt, mapType(c.Type).TSType)
		if c.PrimaryKey {
			pks = append(pks, `"`+attr+`"`)
		}
		if c.AllowNull || c.AutoIncrement || c.DefaultValue != nil {
			optional = append(optional, `"`+attr+`"`)
		}
	}
	m.b.WriteString("}\n\n")
	if len(pks) > 0 {
		fmt.Fprintf(&m.b, "export type %sPk = %s;\n", n, strings.Join(pks, " | "))
		fmt.Fprintf(&m.b, "export type %sId = %s[%sPk];\n", n, n, n)
	}
	if len(optional) > 0 {
		fmt.Fprintf(&m.b, "export type %sOptionalAttributes = %s;\n", n, strings.Join(optional, " | "))
		fmt.Fprintf(&m.b, "export type %sCreationAttributes = Optional<%sAttributes, %sOptionalAttributes>;\n\n", n, n, n)
	} else {
		fmt.Fprintf(&m.b, "export type %sCreationAttributes = %sAttributes;\n\n", n, n)
	}
	fmt.Fprintf(&m.b, "export class %s extends Model<%sAttributes, %sCreationAttributes> implements %sAttributes {\n", n, n, n, n)
	for _, c := range m.t.Columns {
		mark := "!"
		if c.AllowNull {
			mark = "?"
		}
		fmt.Fprintf(&m.b, "%s%s%s: %s;\n", sp, m.attrName(c), mark, mapType(c.Type).TSType)
	}
	m.b.WriteString("\n")
	fmt.Fprintf(&m.b, "%sstatic initModel(sequelize: Sequelize.Sequelize): typeof %s {\n", sp, n)
	fmt.Fprintf(&m.b, "%sreturn %s.init({\n", sp2, n)
	m.attributes(3)
	fmt.Fprintf(&m.b, "%s}, {\n", sp2)
	m.options(3)
	fmt.Fprintf(&m.b, "%s});\n", sp2)
	fmt.Fprintf(&m.b, "%s}\n", sp)
	m.b.WriteString("}\n")
	return m.b.String()
}

// attributes renders the column definitions at the given indent level.
func (m *modelRender) attributes(level int) {
	var (
		sp  = m.cfg.Indent(level)
		sp1 = m.cfg.Indent(level + 1)
	)
	for i, c := range m.t.Columns {
		attr := m.attrName(c)
		fmt.Fprintf(&m.b, "%s%s: {\n", sp, jsKey(attr))
		var props []string
		if c.AutoIncrement {
			props = append(props, "autoIncrement: true")
		}
		props = append(props, "type: "+mapType(c.Type).DataType)
		props = append(props, fmt.Sprintf("allowNull: %t", c.AllowNull))
		if c.DefaultValue != nil && !c.AutoIncrement {
			props = append(props, "defaultValue: "+defaultValue(*c.DefaultValue, c.Type))
		}
		if c.PrimaryKey {
			props = append(props, "primaryKey: true")
		}
		if c.Comment != "" {
			props = append(props, "comment: "+jsString(c.Comment))
		}
		if fk, ok := m.fks[c.Name]; ok && fk.IsForeignKey {
			props = append(props, fmt.Sprintf("references: {\n%s%smodel: %s,\n%s%skey: %s\n%s}",
				sp1, m.cfg.Indent(1), jsString(fk.TargetTable), sp1, m.cfg.Indent(1), jsString(fk.TargetColumn), sp1))
		}
		if attr != c.Name {
			props = append(props, "field: "+jsString(c.Name))
		}
		for j, p := range props {
			sep := ","
			if j == len(props)-1 {
				sep = ""
			}
			fmt.Fprintf(&m.b, "%s%s%s\n", sp1, p, sep)
		}
		sep := ","
		if i == len(m.t.Columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&m.b, "%s}%s\n", sp, sep)
	}
}

// options renders the model options at the given indent level.
func (m *modelRender) options(level int) {
	sp := m.cfg.Indent(level)
	opts := []string{"sequelize", "tableName: " + jsString(m.t.Name)}
	if m.t.Schema != "" {
		opts = append(opts, "schema: "+jsString(m.t.Schema))
	}
	if m.t.Comment != "" {
		opts = append(opts, "comment: "+jsString(m.t.Comment))
	}
	opts = append(opts, "timestamps: false")
	for i, o := range opts {
		sep := ","
		if i == len(opts)-1 {
			sep = ""
		}
		fmt.Fprintf(&m.b, "%s%s%s\n", sp, o, sep)
	}
}

func (m *modelRender) attrName(c *load.Column) string {
	return Recase(m.cfg.CaseProp, c.Name, false)
}

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	numberRe = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	// postgres casts, e.g. 'active'::character varying
	castRe = regexp.MustCompile(`::[a-zA-Z ]+(\[\])?$`)
)

// jsKey quotes an object key that is not a valid identifier.
func jsKey(s string) string {
	if identRe.MatchString(s) {
		return s
	}
	return jsString(s)
}

// jsString renders s as a single-quoted JavaScript string.
func jsString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

// defaultValue renders a column default reported by the database.
func defaultValue(v, typ string) string {
	v = castRe.ReplaceAllString(strings.TrimSpace(v), "")
	lower := strings.ToLower(v)
	switch {
	case lower == "null":
		return "null"
	case lower == "true" || lower == "false":
		if mapType(typ).TSType == "boolean" {
			return lower
		}
	case numberRe.MatchString(v):
		switch mapType(typ).TSType {
		case "boolean":
			return fmt.Sprint(v != "0")
		case "number":
			return v
		}
		return jsString(v)
	case len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'':
		return jsString(strings.ReplaceAll(v[1:len(v)-1], "''", "'"))
	}
	if strings.Contains(v, "(") || strings.HasPrefix(lower, "current_") {
		return "Sequelize.Sequelize.literal(" + jsString(v) + ")"
	}
	return jsString(v)
}
