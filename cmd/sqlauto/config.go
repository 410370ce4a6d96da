package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlauto/compiler/gen"
)

// settings is the content of the --config file: the generator config plus
// where the table data comes from.
type settings struct {
	Dialect    string `yaml:"dialect,omitempty"`
	DSN        string `yaml:"dsn,omitempty"`
	Input      string `yaml:"input,omitempty"`
	gen.Config `yaml:",inline"`
}

// loadSettings reads path over the default config. An empty path yields
// the defaults.
func loadSettings(path string) (*settings, error) {
	s := &settings{Config: *gen.DefaultConfig()}
	if path == "" {
		return s, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// dsn returns the configured DSN, falling back to the environment.
func (s *settings) dsn() string {
	if s.DSN != "" {
		return s.DSN
	}
	return os.Getenv(dsnEnv)
}

// configFlags mirror the fields of settings. Only flags set on the command
// line override the config file.
type configFlags struct {
	dialect, dsn, input string

	lang, dir                     string
	caseFile, caseModel, caseProp string
	singularize, noPluralize      bool
	noAlias, noInitModels         bool
	noWrite, spaces, views        bool
	indentation                   int
	schema                        string
	tables, skipTables            []string
	pkSuffixes                    []string
}

func (f *configFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.dialect, "dialect", "e", "", "database dialect: postgres, mysql, mariadb or sqlite")
	fs.StringVar(&f.dsn, "dsn", "", "database connection string (default $"+dsnEnv+")")
	fs.StringVarP(&f.input, "input", "i", "", "table-data document (yaml, json or msgpack) used instead of a database")
	fs.StringVarP(&f.lang, "lang", "l", "es5", "output language: ts, esm, es6 or es5")
	fs.StringVarP(&f.dir, "output", "o", "./models", "output directory")
	fs.StringVar(&f.caseFile, "caseFile", "o", "file name case: o, c, l, p, u or k")
	fs.StringVar(&f.caseModel, "caseModel", "o", "model name case: o, c, l, p or u")
	fs.StringVar(&f.caseProp, "caseProp", "o", "property name case: o, c, l, p or u")
	fs.BoolVar(&f.singularize, "singularize", false, "singularize model and file names")
	fs.BoolVar(&f.noPluralize, "noPluralize", false, "do not pluralize has-many properties")
	fs.BoolVar(&f.noAlias, "noAlias", false, "omit aliases on belongsTo, hasOne and hasMany")
	fs.BoolVar(&f.noInitModels, "noInitModels", false, "do not write init-models")
	fs.BoolVar(&f.noWrite, "noWrite", false, "do not write any file")
	fs.IntVar(&f.indentation, "indentation", 2, "indent width")
	fs.BoolVar(&f.spaces, "spaces", true, "indent with spaces instead of tabs")
	fs.StringSliceVar(&f.pkSuffixes, "pkSuffixes", []string{"id"}, "suffixes trimmed from foreign-key columns")
	fs.StringVarP(&f.schema, "schema", "s", "", "database schema")
	fs.StringSliceVarP(&f.tables, "tables", "t", nil, "tables to include")
	fs.StringSliceVarP(&f.skipTables, "skipTables", "T", nil, "tables to skip")
	fs.BoolVar(&f.views, "views", false, "include views")
}

// settings loads the config file of a and applies the flags set on cmd.
func (f *configFlags) settings(cmd *cobra.Command, a *app) (*settings, error) {
	s, err := loadSettings(a.cfgFile)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("dialect") {
		s.Dialect = f.dialect
	}
	if changed("dsn") {
		s.DSN = f.dsn
	}
	if changed("input") {
		s.Input = f.input
	}
	var opts []gen.Option
	if changed("lang") {
		opts = append(opts, gen.WithLang(f.lang))
	}
	if changed("output") {
		opts = append(opts, gen.WithDirectory(f.dir))
	}
	if changed("caseFile") {
		opts = append(opts, gen.WithCaseFile(f.caseFile))
	}
	if changed("caseModel") {
		opts = append(opts, gen.WithCaseModel(f.caseModel))
	}
	if changed("caseProp") {
		opts = append(opts, gen.WithCaseProp(f.caseProp))
	}
	if changed("singularize") {
		opts = append(opts, gen.WithSingularize(f.singularize))
	}
	if changed("noPluralize") {
		opts = append(opts, gen.WithPluralize(!f.noPluralize))
	}
	if changed("noAlias") {
		opts = append(opts, gen.WithNoAlias(f.noAlias))
	}
	if changed("noInitModels") {
		opts = append(opts, gen.WithNoInitModels(f.noInitModels))
	}
	if changed("noWrite") {
		opts = append(opts, gen.WithNoWrite(f.noWrite))
	}
	if changed("indentation") || changed("spaces") {
		n, spaces := s.Indentation, s.Spaces
		if changed("indentation") {
			n = f.indentation
		}
		if changed("spaces") {
			spaces = f.spaces
		}
		opts = append(opts, gen.WithIndentation(n, spaces))
	}
	if changed("pkSuffixes") {
		opts = append(opts, gen.WithPKSuffixes(f.pkSuffixes...))
	}
	if changed("schema") {
		opts = append(opts, gen.WithSchema(f.schema))
	}
	if changed("tables") {
		s.Tables = nil
		opts = append(opts, gen.WithTables(f.tables...))
	}
	if changed("skipTables") {
		s.SkipTables = nil
		opts = append(opts, gen.WithSkipTables(f.skipTables...))
	}
	if changed("views") {
		opts = append(opts, gen.WithViews(f.views))
	}
	if err := s.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return s, nil
}
