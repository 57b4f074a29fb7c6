// server/cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"farm-catalog-server/config"
	"farm-catalog-server/internal/logging"
	"farm-catalog-server/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Farm catalog server",
	// Không có sub-command thì chạy server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig đọc cấu hình và thiết lập logger toàn cục.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, fmt.Errorf("could not load config: %w", err)
	}
	logging.Setup(cfg.Log)
	return cfg, nil
}

// openStore khởi tạo driver theo store.driver và gắn bộ đếm Prometheus.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return store.Instrument(store.NewMemory(), config.DriverMemory), nil
	default:
		db, err := store.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		log.Info().Str("db", cfg.Mongo.DBName).Bool("transactions", cfg.Mongo.Transactions).Msg("connected to MongoDB")
		return store.Instrument(db, config.DriverMongo), nil
	}
}
