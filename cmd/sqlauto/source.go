package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/syssam/sqlauto/compiler/load"
	"github.com/syssam/sqlauto/dialect/sql"
	"github.com/syssam/sqlauto/dialect/sql/schema"
)

// tableData reads the table data from the input document when one is
// configured, or introspects the database otherwise.
func (a *app) tableData(ctx context.Context, s *settings) (*load.TableData, error) {
	if s.Input != "" {
		td, err := load.ReadFile(s.Input)
		if err != nil {
			return nil, err
		}
		a.log.Debug("table data loaded", zap.String("input", s.Input), zap.Int("tables", len(td.TableNames())))
		return td, nil
	}
	return a.inspect(ctx, s)
}

func (a *app) inspect(ctx context.Context, s *settings) (*load.TableData, error) {
	if s.Dialect == "" {
		return nil, errors.New("missing --dialect or --input")
	}
	dsn := s.dsn()
	if dsn == "" {
		return nil, fmt.Errorf("missing --dsn or $%s", dsnEnv)
	}
	drv, err := sql.Open(s.Dialect, dsn)
	if err != nil {
		return nil, err
	}
	defer drv.Close()
	version, err := drv.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", drv.Dialect(), err)
	}
	a.log.Info("connected", zap.String("dialect", drv.Dialect()), zap.String("version", version))
	insp, err := schema.NewInspector(drv,
		schema.WithSchema(s.Schema),
		schema.WithTables(s.Tables...),
		schema.WithSkipTables(s.SkipTables...),
		schema.WithViews(s.Views),
		schema.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	td, err := insp.Inspect(ctx)
	if err != nil {
		return nil, err
	}
	res := schema.ValidateTableData(td)
	for _, e := range res.Errors {
		a.log.Error("invalid table", zap.Error(e))
	}
	for _, w := range res.Warnings {
		a.log.Warn("table warning", zap.Error(w))
	}
	return td, nil
}
