package gen

import (
	"context"

	"github.com/syssam/sqlauto/compiler/load"
)

// Generate renders the model text of every table that has none, infers
// the relations when td carries none, and writes the result.
//
//	td, err := load.ReadFile("tables.yaml")
//	if err != nil {
//		return err
//	}
//	cfg := gen.MustNewConfig(gen.WithLang("ts"), gen.WithDirectory("./models"))
//	if err := gen.Generate(ctx, td, cfg, gen.WithLogger(log)); err != nil {
//		return err
//	}
func Generate(ctx context.Context, td *load.TableData, cfg *Config, opts ...WriterOption) error {
	if td == nil {
		return NewConfigError("TableData", nil, "table data cannot be nil")
	}
	if cfg == nil {
		return NewConfigError("Config", nil, "config cannot be nil")
	}
	Prepare(td, cfg)
	w, err := NewWriter(td, cfg, opts...)
	if err != nil {
		return err
	}
	return w.Write(ctx)
}

// Prepare fills what the writer needs and td lacks: model text for
// tables without one, foreign-key entries for every table and, when td
// has no relations, the relations inferred from its foreign keys.
func Prepare(td *load.TableData, cfg *Config) {
	RenderModels(td, cfg)
	if td.ForeignKeys == nil {
		td.ForeignKeys = make(map[string]map[string]*load.ForeignKey)
	}
	for _, q := range td.TableNames() {
		if _, n := load.SplitQName(q); td.ForeignKeys[n] == nil {
			td.ForeignKeys[n] = make(map[string]*load.ForeignKey)
		}
	}
	if td.Relations == nil {
		td.Relations = BuildRelations(td, cfg)
	}
}
