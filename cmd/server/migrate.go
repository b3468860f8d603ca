package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := ctx.load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg, log, true)
			if err != nil {
				return err
			}
			defer db.Close()
			log.Info("migrations complete")
			return nil
		},
	}
}
