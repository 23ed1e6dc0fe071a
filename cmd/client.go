package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"i4.energy/across/wifigw/modem"
	"i4.energy/across/wifigw/telemetry"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Post telemetry samples to the collector through the modem",
	Long: `Open a TCP connection through the modem and post one JSON document per
sample read from --input (or stdin).

Each input line holds a label and three axis readings:
  ACC 0.01 -0.02 9.81

Samples offered faster than the modem's send interval are dropped.`,
	Args: cobra.NoArgs,
	RunE: runClient,
}

func init() {
	clientCmd.Flags().String("host", "", "Collector host")
	clientCmd.Flags().Int("server-port", 5000, "Collector port")
	clientCmd.Flags().StringP("input", "i", "", "Sample file (default stdin)")
	rootCmd.AddCommand(clientCmd)
}

func runClient(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if config.ServerHost == "" {
		return errors.New("collector host is required (--host or SERVER_HOST)")
	}
	logger := newLogger(config.LogLevel)

	var input io.Reader = cmd.InOrStdin()
	if name, _ := cmd.Flags().GetString("input"); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		input = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := openModem(ctx, config, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Closing modem connection")
		if err := m.Close(); err != nil {
			logger.Error("Failed to close modem", "error", err)
		}
	}()
	if err := m.Start(ctx); err != nil {
		return err
	}

	stopMonitor := startMonitor(ctx, config.MonitorAddr, m.Events(), logger)
	defer stopMonitor()

	publisher := &telemetry.Publisher{
		Uplink:     modem.NewClient(m),
		Source:     telemetry.NewLineSource(input),
		Logger:     logger.With("component", "publisher"),
		Host:       config.ServerHost,
		Port:       config.ServerPort,
		RetryDelay: m.Config().RetryDelay,
	}

	logger.Info("Publishing samples", "host", config.ServerHost, "port", config.ServerPort)
	if err := publisher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
