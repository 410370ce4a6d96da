package gen

import (
	"errors"
)

// Option configures code generation.
type Option func(*Config) error

// WithLang sets the output dialect: "ts", "esm", "es6" or "es5".
func WithLang(lang string) Option {
	return func(c *Config) error {
		l, err := ParseLang(lang)
		if err != nil {
			return err
		}
		c.Lang = l
		return nil
	}
}

// WithDirectory sets the output directory.
func WithDirectory(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Directory", nil, "directory cannot be empty")
		}
		c.Directory = dir
		return nil
	}
}

// WithCaseFile sets the casing of generated file names.
func WithCaseFile(s string) Option {
	return func(c *Config) error {
		v, err := ParseCase(s)
		if err != nil {
			return err
		}
		c.CaseFile = v
		return nil
	}
}

// WithCaseModel sets the casing of model identifiers.
// Kebab case is rejected since it does not produce identifiers.
func WithCaseModel(s string) Option {
	return func(c *Config) error {
		v, err := identCase("CaseModel", s)
		if err != nil {
			return err
		}
		c.CaseModel = v
		return nil
	}
}

// WithCaseProp sets the casing of association property names.
func WithCaseProp(s string) Option {
	return func(c *Config) error {
		v, err := identCase("CaseProp", s)
		if err != nil {
			return err
		}
		c.CaseProp = v
		return nil
	}
}

func identCase(option, s string) (Case, error) {
	v, err := ParseCase(s)
	if err != nil {
		return "", err
	}
	if v == CaseKebab {
		return "", NewConfigError(option, s, "kebab case is only supported for file names")
	}
	return v, nil
}

// WithSingularize singularizes file and model names.
func WithSingularize(b bool) Option {
	return func(c *Config) error {
		c.Singularize = b
		return nil
	}
}

// WithPluralize pluralizes has-many property names.
func WithPluralize(b bool) Option {
	return func(c *Config) error {
		c.Pluralize = b
		return nil
	}
}

// WithNoInitModels suppresses the init-models file.
func WithNoInitModels(b bool) Option {
	return func(c *Config) error {
		c.NoInitModels = b
		return nil
	}
}

// WithNoAlias suppresses association aliases.
func WithNoAlias(b bool) Option {
	return func(c *Config) error {
		c.NoAlias = b
		return nil
	}
}

// WithNoWrite disables all writes.
func WithNoWrite(b bool) Option {
	return func(c *Config) error {
		c.NoWrite = b
		return nil
	}
}

// WithIndentation sets the indent unit: n spaces, or n tabs when spaces is false.
func WithIndentation(n int, spaces bool) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Indentation", n, "indentation must be positive")
		}
		c.Indentation = n
		c.Spaces = spaces
		return nil
	}
}

// WithPKSuffixes sets the suffixes trimmed from foreign-key column names.
func WithPKSuffixes(suffixes ...string) Option {
	return func(c *Config) error {
		c.PKSuffixes = append([]string(nil), suffixes...)
		return nil
	}
}

// WithSchema sets the schema to introspect.
func WithSchema(schema string) Option {
	return func(c *Config) error {
		c.Schema = schema
		return nil
	}
}

// WithTables restricts introspection to the given tables.
func WithTables(tables ...string) Option {
	return func(c *Config) error {
		c.Tables = append(c.Tables, tables...)
		return nil
	}
}

// WithSkipTables excludes the given tables from introspection.
func WithSkipTables(tables ...string) Option {
	return func(c *Config) error {
		c.SkipTables = append(c.SkipTables, tables...)
		return nil
	}
}

// WithViews includes views in introspection.
func WithViews(b bool) Option {
	return func(c *Config) error {
		c.Views = b
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
