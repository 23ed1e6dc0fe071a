package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"i4.energy/across/wifigw/modem"
)

var apCmd = &cobra.Command{
	Use:   "ap",
	Short: "Provision the modem as an access point serving a page",
	Long: `Walk the modem through the access point setup (AT, CWMODE, CIPMUX,
CIPSERVER) and then serve the selected page to every client that connects.

The configuration page posts an SSID and password back through the modem;
the gateway joins that network as soon as they arrive.`,
	Args: cobra.NoArgs,
	RunE: runAP,
}

func init() {
	apCmd.Flags().String("page", "config", "Page to serve (config, hello)")
	apCmd.Flags().Bool("auto", true, "Advance the setup stages automatically")
	rootCmd.AddCommand(apCmd)
}

func pageByName(name string) (string, error) {
	switch name {
	case "config":
		return modem.ConfigPage, nil
	case "hello":
		return modem.HelloPage, nil
	default:
		return "", fmt.Errorf("unknown page %q (use config or hello)", name)
	}
}

// openModem dials the configured modem. configure may adjust the builder
// before the config is built.
func openModem(ctx context.Context, c *Config, logger *slog.Logger, configure func(*modem.ConfigBuilder)) (*modem.Modem, error) {
	dialer, info, err := newDialer(c, GetPassword)
	if err != nil {
		return nil, err
	}

	builder := modem.NewConfigBuilder().
		WithDialer(dialer).
		WithLogger(logger.With("component", "modem"))
	if configure != nil {
		configure(builder)
	}
	modemConfig, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create modem config: %w", err)
	}

	m, err := modem.New(ctx, modemConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open modem (%s): %w", info, err)
	}
	logger.Info("Modem connected", "connection", info)
	return m, nil
}

func runAP(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(config.LogLevel)

	page, err := pageByName(config.Page)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := openModem(ctx, config, logger, func(b *modem.ConfigBuilder) {
		b.WithPage(page).WithAutoProvision(config.AutoProvision)
	})
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Closing modem connection")
		if err := m.Close(); err != nil {
			logger.Error("Failed to close modem", "error", err)
		}
	}()

	stopMonitor := startMonitor(ctx, config.MonitorAddr, m.Events(), logger)
	defer stopMonitor()

	logger.Info("Starting access point", "page", config.Page, "auto", config.AutoProvision)
	err = modem.NewAccessPoint(m).Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("Received shutdown signal")
		return nil
	}
	return err
}
