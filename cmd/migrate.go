package cmd

import (
	"context"
	"fmt"
	"time"

	"pizza-ordering/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the postgres schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if config.Database.Driver == "memory" {
			return fmt.Errorf("migrate needs DB_DRIVER=postgres")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		db, err := database.InitDB(config.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			logger.Error("Migration failed", zap.Error(err))
			return err
		}

		logger.Info("Migration complete")
		return nil
	},
}
