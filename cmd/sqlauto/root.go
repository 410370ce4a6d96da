package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dsnEnv is read when no DSN is given by flag or config file.
const dsnEnv = "SQLAUTO_DSN"

// app is the state shared by all commands of a run.
type app struct {
	cfgFile string
	envFile string
	verbose bool

	log *zap.Logger
	// debounce delays regeneration after a change of the watched input.
	debounce time.Duration
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop(), debounce: 200 * time.Millisecond}
	cmd := &cobra.Command{
		Use:          "sqlauto",
		Short:        "Generate Sequelize models from a database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "development logging")
	cmd.AddCommand(newGenerateCmd(a), newInspectCmd(a))
	return cmd
}

// setup loads the dotenv file and builds the logger.
func (a *app) setup() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}
	cfg := zap.NewProductionConfig()
	if a.verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = l.With(zap.String("run", uuid.NewString()))
	return nil
}
