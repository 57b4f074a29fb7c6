package main

import (
	"context"
	"fmt"

	"farm-catalog-server/internal/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// api seed: insert demo farms and products into an empty catalog.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo farms and products when the catalog is empty",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(context.Background())

		n, err := database.Seed(ctx, db)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		log.Info().Int("farms", n).Msg("seed finished")
		return nil
	},
}
