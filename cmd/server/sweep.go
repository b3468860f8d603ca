package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Fail designs stuck in PENDING or PROCESSING once, then exit",
		Long: "Marks designs that have not reached a terminal status within STALE_DESIGN_AFTER as FAILED.\n" +
			"Safe to run from cron alongside servers; a Redis lock keeps concurrent sweeps apart when REDIS_ADDR is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := ctx.load()
			if err != nil {
				return err
			}
			if cfg.StaleDesignAfter <= 0 {
				return fmt.Errorf("STALE_DESIGN_AFTER must be positive to sweep")
			}
			a, err := newApp(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.newSweeper().Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "failed %d stale designs\n", n)
			return nil
		},
	}
}
