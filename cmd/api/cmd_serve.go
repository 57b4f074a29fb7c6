package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"farm-catalog-server/internal/api/routes"
	"farm-catalog-server/internal/socket"
	"farm-catalog-server/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// api serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Server.GinMode != "" {
			gin.SetMode(cfg.Server.GinMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				log.Error().Err(err).Msg("failed to close store")
			}
		}()

		tmpl, err := views.Load()
		if err != nil {
			return err
		}

		// Hub cho các client websocket nhận sự kiện catalog
		wsHub := socket.NewHub()
		router := routes.SetupRouter(cfg, db, tmpl, wsHub)

		srv := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      routes.Handler(router),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Server.Port).Msg("starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
