package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the application configuration
type Config struct {
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int
	// BridgeURL reaches the modem through a websocket serial bridge instead of a local port
	BridgeURL string
	// BridgeUsername enables HTTP Basic auth against the bridge
	BridgeUsername string
	// NoSSLVerify skips certificate checks on wss:// bridges
	NoSSLVerify bool
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// MonitorAddr serves the live event stream when set (e.g. "0.0.0.0:8081")
	MonitorAddr string

	// ServerHost and ServerPort locate the collector the client posts to
	ServerHost string
	ServerPort int
	// CollectorAddr is the address the collector listens on
	CollectorAddr string

	// Page selects the page served by the access point ("config" or "hello")
	Page string
	// AutoProvision walks the setup stages without manual triggers
	AutoProvision bool
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.ServerPort = 5000
		c.CollectorAddr = "0.0.0.0:5000"
		c.Page = "config"
		c.AutoProvision = true
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			b, err := strconv.Atoi(baud)
			if err != nil {
				return fmt.Errorf("invalid BAUD_RATE %q: %w", baud, err)
			}
			c.BaudRate = b
		}

		if u := os.Getenv("BRIDGE_URL"); u != "" {
			c.BridgeURL = u
		}

		if user := os.Getenv("BRIDGE_USERNAME"); user != "" {
			c.BridgeUsername = user
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if addr := os.Getenv("MONITOR_ADDRESS"); addr != "" {
			c.MonitorAddr = addr
		}

		if host := os.Getenv("SERVER_HOST"); host != "" {
			c.ServerHost = host
		}

		if port := os.Getenv("SERVER_PORT"); port != "" {
			p, err := strconv.Atoi(port)
			if err != nil {
				return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
			}
			c.ServerPort = p
		}

		if addr := os.Getenv("COLLECTOR_ADDRESS"); addr != "" {
			c.CollectorAddr = addr
		}

		return nil
	}
}

// WithFlags loads configuration from the flags that were set on the command line
func WithFlags(fSet *pflag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *pflag.Flag) {
			if err != nil {
				return
			}
			switch f.Name {
			case "port":
				c.SerialPort = f.Value.String()
			case "baud":
				c.BaudRate, err = strconv.Atoi(f.Value.String())
			case "url":
				c.BridgeURL = f.Value.String()
			case "username":
				c.BridgeUsername = f.Value.String()
			case "no-ssl-verify":
				c.NoSSLVerify, err = strconv.ParseBool(f.Value.String())
			case "log-level":
				c.LogLevel = f.Value.String()
			case "monitor":
				c.MonitorAddr = f.Value.String()
			case "host":
				c.ServerHost = f.Value.String()
			case "server-port":
				c.ServerPort, err = strconv.Atoi(f.Value.String())
			case "listen":
				c.CollectorAddr = f.Value.String()
			case "page":
				c.Page = f.Value.String()
			case "auto":
				c.AutoProvision, err = strconv.ParseBool(f.Value.String())
			}
		})
		if err != nil {
			return fmt.Errorf("invalid flag value: %w", err)
		}
		return nil
	}
}
