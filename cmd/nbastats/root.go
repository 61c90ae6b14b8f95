package main

import (
	"fmt"
	"io"

	"github.com/maxviazov/nba-stats-manager/internal/app"
	"github.com/maxviazov/nba-stats-manager/internal/config"
	"github.com/maxviazov/nba-stats-manager/internal/logger"
	"github.com/spf13/cobra"
)

// cli is the state shared by every subcommand. The app is opened in
// PersistentPreRunE and closed in PersistentPostRunE.
type cli struct {
	cfgFile string
	out     io.Writer
	app     *app.App
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	root := &cobra.Command{
		Use:           "nbastats",
		Short:         "NBA player season stats: refresh, query and export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (YAML)")

	root.AddCommand(
		c.initCmd(),
		c.refreshCmd(),
		c.topCmd(),
		c.teamCmd(),
		c.compareCmd(),
		c.efficiencyCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.importTeamsCmd(),
		c.teamsCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	// keep stdout for command output
	if cfg.Logger.OutputTarget == "" {
		cfg.Logger.OutputTarget = "stderr"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "warn"
	}
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a, err := app.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
