package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizza-ordering/internal/data/seed"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/internal/wire"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveSeed    bool
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "seed the menu and admin account before serving")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply the schema before serving (postgres only)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("db_driver", config.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cl closers
	defer cl.closeAll()

	repo, err := openRepository(ctx, config, logger, serveMigrate, &cl)
	if err != nil {
		logger.Error("Failed to open storage", zap.Error(err))
		return err
	}

	if serveSeed || config.Database.Driver == "memory" {
		if _, err := seed.Run(ctx, repo, config.Seed.AdminPassword, logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	infra, err := buildInfra(ctx, config, logger, &cl)
	if err != nil {
		logger.Error("Failed to connect infrastructure", zap.Error(err))
		return err
	}

	var simulator *usecase.DeliverySimulator
	if config.Delivery.Simulate {
		simulator = usecase.NewDeliverySimulator(config.Delivery, logger)
		infra.Delivery = simulator
		logger.Info("Delivery simulation enabled",
			zap.String("webhook_url", config.Delivery.WebhookURL),
			zap.Duration("min_delay", config.Delivery.MinDelay),
			zap.Duration("max_delay", config.Delivery.MaxDelay))
	}

	app := wire.Wiring(repo, infra, config, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger, func() {
		if simulator != nil {
			simulator.Stop()
		}
	})
}

// APIServer serves until ctx is cancelled, then drains in-flight requests.
// onShutdown runs after the listener has stopped.
func APIServer(ctx context.Context, handler http.Handler, port string, logger *zap.Logger, onShutdown func()) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if onShutdown != nil {
		onShutdown()
	}
	if err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
