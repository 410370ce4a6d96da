package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/sqlauto/compiler/gen"
	"github.com/syssam/sqlauto/compiler/load"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		flags configFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Save the database schema and its relations as a table-data document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.settings(cmd, a)
			if err != nil {
				return err
			}
			if out == "" {
				return errors.New("missing --out")
			}
			if _, err := load.FormatOf(out); err != nil {
				return err
			}
			td, err := a.inspect(cmd.Context(), s)
			if err != nil {
				return err
			}
			td.Relations = gen.BuildRelations(td, &s.Config)
			if err := load.WriteFile(out, td); err != nil {
				return err
			}
			a.log.Info("table data saved",
				zap.String("out", out),
				zap.Int("tables", len(td.Tables)),
				zap.Int("relations", len(td.Relations)),
			)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "document to write; the extension selects yaml, json or msgpack")
	return cmd
}
