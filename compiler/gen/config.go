package gen

import (
	"fmt"
	"strings"
)

// Lang is the output dialect of the generated sources.
type Lang string

// Output dialects.
const (
	// LangTS emits TypeScript classes with typed attribute interfaces.
	LangTS Lang = "ts"
	// LangESM emits ECMAScript modules with default-exported classes.
	LangESM Lang = "esm"
	// LangES6 emits CommonJS modules bound with const.
	LangES6 Lang = "es6"
	// LangES5 emits CommonJS modules bound with var.
	LangES5 Lang = "es5"
)

// Langs lists the supported output dialects.
var Langs = []Lang{LangTS, LangESM, LangES6, LangES5}

// ParseLang parses an output dialect name. The empty string means LangES5.
func ParseLang(s string) (Lang, error) {
	switch l := Lang(strings.ToLower(s)); l {
	case "":
		return LangES5, nil
	case LangTS, LangESM, LangES6, LangES5:
		return l, nil
	default:
		return "", NewConfigError("Lang", s, "unsupported language; use ts, esm, es6 or es5")
	}
}

// Ext returns the file extension, including the dot, of generated files.
func (l Lang) Ext() string {
	if l == LangTS {
		return ".ts"
	}
	return ".js"
}

// String implements fmt.Stringer.
func (l Lang) String() string { return string(l) }

// Case is an identifier casing rule.
type Case string

// Casing rules.
const (
	CaseOriginal Case = "o"
	CaseCamel    Case = "c"
	CaseSnake    Case = "l"
	CasePascal   Case = "p"
	CaseUpper    Case = "u"
	// CaseKebab is only meaningful for file names.
	CaseKebab Case = "k"
)

// ParseCase parses a casing rule. The empty string means CaseOriginal.
func ParseCase(s string) (Case, error) {
	switch c := Case(s); c {
	case "":
		return CaseOriginal, nil
	case CaseOriginal, CaseCamel, CaseSnake, CasePascal, CaseUpper, CaseKebab:
		return c, nil
	default:
		return "", NewConfigError("Case", s, "unsupported case; use o, c, l, p, u or k")
	}
}

// Config holds the generator configuration.
type Config struct {
	// Lang is the output dialect.
	Lang Lang `yaml:"lang,omitempty"`
	// Directory is where model files and init-models are written.
	Directory string `yaml:"directory,omitempty"`
	// CaseFile, CaseModel and CaseProp are the casing rules of file
	// names, model identifiers and association properties.
	CaseFile  Case `yaml:"caseFile,omitempty"`
	CaseModel Case `yaml:"caseModel,omitempty"`
	CaseProp  Case `yaml:"caseProp,omitempty"`
	// Singularize singularizes file and model names.
	Singularize bool `yaml:"singularize"`
	// Pluralize pluralizes has-many property names during relation inference.
	Pluralize bool `yaml:"pluralize"`
	// NoInitModels suppresses the init-models aggregator.
	NoInitModels bool `yaml:"noInitModels"`
	// NoAlias suppresses "as" on belongsTo, hasOne and hasMany.
	NoAlias bool `yaml:"noAlias"`
	// NoWrite turns Write into a no-op.
	NoWrite bool `yaml:"noWrite"`
	// Spaces selects spaces over tabs; Indentation is the unit width.
	Spaces      bool `yaml:"spaces"`
	Indentation int  `yaml:"indentation,omitempty"`
	// PKSuffixes are trimmed from foreign-key columns to derive aliases.
	PKSuffixes []string `yaml:"pkSuffixes,omitempty"`
	// Schema, Tables, SkipTables and Views drive introspection.
	Schema     string   `yaml:"schema,omitempty"`
	Tables     []string `yaml:"tables,omitempty"`
	SkipTables []string `yaml:"skipTables,omitempty"`
	Views      bool     `yaml:"views"`
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() *Config {
	return &Config{
		Lang:        LangES5,
		Directory:   "./models",
		CaseFile:    CaseOriginal,
		CaseModel:   CaseOriginal,
		CaseProp:    CaseOriginal,
		Pluralize:   true,
		Spaces:      true,
		Indentation: 2,
		PKSuffixes:  []string{"id"},
	}
}

// Ext returns the extension of generated files.
func (c *Config) Ext() string { return c.Lang.Ext() }

// Indent returns n indent units.
func (c *Config) Indent(n int) string {
	width := c.Indentation
	if width <= 0 {
		width = 2
	}
	ch := "\t"
	if c.Spaces {
		ch = " "
	}
	return strings.Repeat(ch, width*n)
}

// FileName returns the base name, without extension, of the model file
// of the given unqualified table.
func (c *Config) FileName(table string) string {
	return Recase(c.CaseFile, table, c.Singularize)
}

// ModelName returns the model identifier of the given unqualified table.
func (c *Config) ModelName(table string) string {
	return ModelName(c.CaseModel, table, c.Singularize, c.Lang)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := ParseLang(string(c.Lang)); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    Case
	}{{"CaseFile", c.CaseFile}, {"CaseModel", c.CaseModel}, {"CaseProp", c.CaseProp}} {
		if _, err := ParseCase(string(f.v)); err != nil {
			return NewConfigError(f.name, f.v, "unsupported case")
		}
	}
	if c.CaseModel == CaseKebab || c.CaseProp == CaseKebab {
		return NewConfigError("Case", CaseKebab, "kebab case is only supported for file names")
	}
	if c.Directory == "" && !c.NoWrite {
		return NewConfigError("Directory", nil, "missing output directory")
	}
	return nil
}

// String returns a short description used in logs.
func (c *Config) String() string {
	return fmt.Sprintf("lang=%s dir=%s caseFile=%s caseModel=%s caseProp=%s", c.Lang, c.Directory, c.CaseFile, c.CaseModel, c.CaseProp)
}
