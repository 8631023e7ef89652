package cmd

import (
	"context"
	"fmt"
	"time"

	"pizza-ordering/internal/data/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the starter menu and the admin@admin.com account",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if config.Database.Driver == "memory" {
			return fmt.Errorf("seeding the in-memory store happens on serve")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		var cl closers
		defer cl.closeAll()

		repo, err := openRepository(ctx, config, logger, true, &cl)
		if err != nil {
			return err
		}

		res, err := seed.Run(ctx, repo, config.Seed.AdminPassword, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Pizza migration complete! created=%d skipped=%d admin_created=%t\n",
			res.PizzasCreated, res.PizzasSkipped, res.AdminCreated)
		return nil
	},
}
