package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
	"i4.energy/across/wifigw/modem"
)

// ErrNoConnection is returned when neither a serial port nor a bridge URL is configured.
var ErrNoConnection = errors.New("either --port or --url must be specified")

// GetPassword returns the bridge password from BRIDGE_PASSWORD, prompting
// without echo when it is not set.
func GetPassword() (string, error) {
	if pw := os.Getenv("BRIDGE_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// stdin is not a terminal
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// newDialer picks the bridge when a URL is configured and the serial port
// otherwise. The string describes the connection for logs.
func newDialer(c *Config, password func() (string, error)) (modem.Dialer, string, error) {
	if c.BridgeURL != "" {
		pw := ""
		if c.BridgeUsername != "" {
			var err error
			if pw, err = password(); err != nil {
				return nil, "", err
			}
		}
		return modem.WebSocketDialer{
			URL:        c.BridgeURL,
			Username:   c.BridgeUsername,
			Password:   pw,
			SkipVerify: c.NoSSLVerify,
		}, "websocket: " + c.BridgeURL, nil
	}

	if c.SerialPort != "" {
		return modem.SerialDialer{
			PortName: c.SerialPort,
			BaudRate: c.BaudRate,
		}, fmt.Sprintf("serial: %s @ %d baud", c.SerialPort, c.BaudRate), nil
	}

	return nil, "", ErrNoConnection
}
