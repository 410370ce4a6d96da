package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/sqlauto/compiler/load"
)

// InitFile is the base name of the aggregator file.
const InitFile = "init-models"

// initModel is one entry of the aggregator: the model file it imports
// and the identifier it binds.
type initModel struct {
	File string
	Name string
}

// initDialect holds the per-dialect pieces of the aggregator. The layout
// shared by every dialect lives in renderInit.
type initDialect interface {
	// header renders everything before the initModels function.
	header(b *strings.Builder, models []initModel, sp string)
	// open is the initModels function signature line.
	open() string
	// bind binds one model to the connection.
	bind(m initModel) string
	// entry is one property of the returned object.
	entry(m initModel) string
	// footer renders everything after the function.
	footer(b *strings.Builder)
}

func initDialectOf(l Lang) initDialect {
	switch l {
	case LangTS:
		return tsInit{}
	case LangESM:
		return esmInit{}
	case LangES6:
		return requireInit{decl: "const"}
	default:
		return requireInit{decl: "var"}
	}
}

// InitModels renders the aggregator that imports, initializes, associates
// and returns every model. Table names are unqualified and get sorted.
func InitModels(tables []string, assoc string, cfg *Config) string {
	tables = slices.Clone(tables)
	slices.Sort(tables)
	models := make([]initModel, len(tables))
	for i, t := range tables {
		models[i] = initModel{File: cfg.FileName(t), Name: cfg.ModelName(t)}
	}
	return renderInit(initDialectOf(cfg.Lang), models, assoc, cfg)
}

func renderInit(d initDialect, models []initModel, assoc string, cfg *Config) string {
	var (
		b   strings.Builder
		sp  = cfg.Indent(1)
		sp2 = cfg.Indent(2)
	)
	d.header(&b, models, sp)
	b.WriteString(d.open())
	for _, m := range models {
		b.WriteString(sp + d.bind(m) + "\n")
	}
	b.WriteString("\n" + assoc)
	b.WriteString("\n" + sp + "return {\n")
	for _, m := range models {
		b.WriteString(sp2 + d.entry(m) + ",\n")
	}
	b.WriteString(sp + "};\n")
	b.WriteString("}\n")
	d.footer(&b)
	return b.String()
}

// ModelCollisions groups the tables whose model identifiers collide.
// The result maps each colliding identifier to its sorted tables.
func ModelCollisions(tables []string, cfg *Config) map[string][]string {
	byName := make(map[string][]string)
	for _, t := range tables {
		_, name := load.SplitQName(t)
		m := cfg.ModelName(name)
		byName[m] = append(byName[m], name)
	}
	collisions := make(map[string][]string)
	for m, ts := range byName {
		if len(ts) > 1 {
			slices.Sort(ts)
			collisions[m] = ts
		}
	}
	return collisions
}

// tsInit renders typed imports, named re-exports and initModel calls.
type tsInit struct{}

func (tsInit) header(b *strings.Builder, models []initModel, sp string) {
	b.WriteString("import type { Sequelize } from \"sequelize\";\n")
	for _, m := range models {
		fmt.Fprintf(b, "import { %s as _%s } from \"./%s\";\n", m.Name, m.Name, m.File)
		fmt.Fprintf(b, "import type { %sAttributes, %sCreationAttributes } from \"./%s\";\n", m.Name, m.Name, m.File)
	}
	b.WriteString("\nexport {\n")
	for _, m := range models {
		fmt.Fprintf(b, "%s_%s as %s,\n", sp, m.Name, m.Name)
	}
	b.WriteString("};\n")
	b.WriteString("\nexport type {\n")
	for _, m := range models {
		fmt.Fprintf(b, "%s%sAttributes,\n", sp, m.Name)
		fmt.Fprintf(b, "%s%sCreationAttributes,\n", sp, m.Name)
	}
	b.WriteString("};\n\n")
}

func (tsInit) open() string { return "export function initModels(sequelize: Sequelize) {\n" }

func (tsInit) bind(m initModel) string {
	return fmt.Sprintf("const %s = _%s.initModel(sequelize);", m.Name, m.Name)
}

func (tsInit) entry(m initModel) string { return m.Name + ": " + m.Name }

func (tsInit) footer(*strings.Builder) {}

// esmInit renders default imports and a default-exported function.
type esmInit struct{}

func (esmInit) header(b *strings.Builder, models []initModel, _ string) {
	b.WriteString("import _sequelize from \"sequelize\";\n")
	b.WriteString("const DataTypes = _sequelize.DataTypes;\n")
	for _, m := range models {
		fmt.Fprintf(b, "import _%s from  \"./%s.js\";\n", m.Name, m.File)
	}
	b.WriteString("\n")
}

func (esmInit) open() string { return "export default function initModels(sequelize) {\n" }

func (esmInit) bind(m initModel) string {
	return fmt.Sprintf("const %s = _%s.init(sequelize, DataTypes);", m.Name, m.Name)
}

func (esmInit) entry(m initModel) string { return m.Name }

func (esmInit) footer(*strings.Builder) {}

// requireInit renders CommonJS require bindings declared with decl
// ("const" for es6, "var" for es5) and the module.exports aliases.
type requireInit struct {
	decl string
}

func (d requireInit) header(b *strings.Builder, models []initModel, _ string) {
	fmt.Fprintf(b, "%s DataTypes = require(\"sequelize\").DataTypes;\n", d.decl)
	for _, m := range models {
		fmt.Fprintf(b, "%s _%s = require(\"./%s\");\n", d.decl, m.Name, m.File)
	}
	b.WriteString("\n")
}

func (requireInit) open() string { return "function initModels(sequelize) {\n" }

func (d requireInit) bind(m initModel) string {
	return fmt.Sprintf("%s %s = _%s(sequelize, DataTypes);", d.decl, m.Name, m.Name)
}

func (requireInit) entry(m initModel) string { return m.Name }

func (requireInit) footer(b *strings.Builder) {
	b.WriteString("module.exports = initModels;\n")
	b.WriteString("module.exports.initModels = initModels;\n")
	b.WriteString("module.exports.default = initModels;\n")
}
