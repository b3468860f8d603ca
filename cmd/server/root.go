package main

import (
	"sync"

	"github.com/spf13/cobra"

	"interior-design-backend/internal/config"
	"interior-design-backend/internal/logger"
)

type commandContext struct {
	once sync.Once
	cfg  *config.Config
	log  *logger.Logger
	err  error
}

// load reads configuration and builds the logger once per process.
func (c *commandContext) load() (*config.Config, *logger.Logger, error) {
	c.once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.err = err
			return
		}
		log, err := logger.New(cfg.Environment)
		if err != nil {
			c.err = err
			return
		}
		c.cfg, c.log = cfg, log
	})
	return c.cfg, c.log, c.err
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Interior design backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx, serveOptions{migrate: true, sweep: true})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.log != nil {
				ctx.log.Sync()
			}
		},
	}

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSweepCommand(ctx))
	return rootCmd
}
