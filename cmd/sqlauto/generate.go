package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/sqlauto/compiler/gen"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		flags   configFlags
		watch   bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write model files and init-models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.settings(cmd, a)
			if err != nil {
				return err
			}
			if watch && s.Input == "" {
				return errors.New("--watch requires --input")
			}
			run := func(ctx context.Context) error {
				return a.generate(ctx, s, workers)
			}
			if err := run(cmd.Context()); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.watch(cmd.Context(), s.Input, run)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the input document changes")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel file writes (default GOMAXPROCS)")
	return cmd
}

func (a *app) generate(ctx context.Context, s *settings, workers int) error {
	td, err := a.tableData(ctx, s)
	if err != nil {
		return err
	}
	a.log.Debug("generating", zap.Stringer("config", &s.Config))
	return gen.Generate(ctx, td, &s.Config, gen.WithLogger(a.log), gen.WithWorkers(workers))
}
