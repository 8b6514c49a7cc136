package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/intentmesh/config"
	"github.com/hupe1980/intentmesh/internal/bootstrap"
	"github.com/hupe1980/intentmesh/logging"
)

// cli carries state shared by the subcommands of one command tree.
type cli struct {
	cfgFile   string
	buildOpts []func(o *bootstrap.Options)
	cfg       *config.Config
}

func newRootCmd(buildOpts ...func(o *bootstrap.Options)) *cobra.Command {
	c := &cli{buildOpts: buildOpts}

	rootCmd := &cobra.Command{
		Use:   "intentmesh",
		Short: "Route HR and TECH questions to grounded domain agents",
		Long: `intentmesh classifies a query as HR, TECH or UNKNOWN, answers it from the
matching keyword-retrieval corpus and remembers recent turns per conversation.

Example usage:
  intentmesh ask --query "vacaciones y onboarding"
  intentmesh ask --query "deploy a kubernetes" --use-heuristic-router --hide-debug
  intentmesh serve --config configs/intentmesh.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $CONFIG_FILE or "+config.DefaultPath+")")

	rootCmd.AddCommand(newAskCmd(c), newServeCmd(c))
	return rootCmd
}

func (c *cli) logger(w io.Writer) logging.Logger {
	level, _ := logging.ParseLevel(c.cfg.Log.Level) // validated by config.Load
	return logging.NewSlogLogger(level, c.cfg.Log.Format, false, w)
}

func (c *cli) bootstrapOptions(logger logging.Logger) []func(o *bootstrap.Options) {
	return append([]func(o *bootstrap.Options){func(o *bootstrap.Options) { o.Logger = logger }}, c.buildOpts...)
}
