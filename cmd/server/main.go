package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"descontamina/internal/app"
	"descontamina/internal/config"
	"descontamina/internal/logging"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagPort     string
	flagStore    string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "descontamina",
	Short: "Organizational culture diagnosis server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the survey, the submission API and the reports",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&flagStore, "store", "", "document store: mongo, firestore, memory or none (overrides STORE_BACKEND)")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd)
}

// @title Descontamina Diagnosis API
// @version 1.0
// @description Organizational culture diagnosis: survey submission and report rendering
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagStore != "" {
		cfg.Store.Backend = flagStore
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	logger.Info("starting",
		zap.String("store", cfg.Store.Backend),
		zap.Bool("ai", cfg.AI.IsEnabled()),
		zap.String("aiTransport", cfg.AI.Transport),
		zap.Bool("search", cfg.SearchEnabled()),
		zap.Bool("crm", cfg.CRMEnabled()),
		zap.Bool("signedReferences", cfg.ReportSigningSecret != ""))

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			a.Close(ctx)
			return fmt.Errorf("listen: %w", err)
		}
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Info("server exited")
	return nil
}
