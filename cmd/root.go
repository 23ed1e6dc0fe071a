package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wifigw",
	Short: "Wi-Fi modem gateway",
	Long: `wifigw drives an AT-command Wi-Fi modem over a serial line.

It can provision the modem as an access point that serves a configuration
page, push telemetry samples to a collector as a TCP client, or run the
collector itself.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For bridge authentication the password is read from the BRIDGE_PASSWORD
environment variable, or prompted interactively if not set.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntP("baud", "b", 115200, "Baud rate (serial only)")

	rootCmd.PersistentFlags().StringP("url", "u", "", "Serial bridge WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().String("username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().Bool("no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("monitor", "", "Serve live modem events over WebSocket on this address")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	return LoadConfig(WithDefaults(), WithEnv(), WithFlags(cmd.Flags()))
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
