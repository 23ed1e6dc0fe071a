package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"i4.energy/across/wifigw/collector"
	"i4.energy/across/wifigw/monitor"
)

var collectorCmd = &cobra.Command{
	Use:   "collector",
	Short: "Receive the documents posted by modem clients",
	Long: `Serve POST /data for modem clients. Accepted documents are echoed to
WebSocket viewers on GET /ws.`,
	Args: cobra.NoArgs,
	RunE: runCollector,
}

func init() {
	collectorCmd.Flags().String("listen", "0.0.0.0:5000", "Address to listen on")
	rootCmd.AddCommand(collectorCmd)
}

func runCollector(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(config.LogLevel)

	httpServer := &http.Server{
		Addr: config.CollectorAddr,
		Handler: &collector.Server{
			Logger: logger.With("component", "collector"),
			Hub:    monitor.NewHub(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
		return err
	}
	return nil
}
