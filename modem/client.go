package modem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"i4.energy/across/wifigw/at"
)

// Client uses the modem as a TCP client that posts JSON documents to an
// HTTP server over link 0.
//
// EstablishConnection and SendPayload wait on the receive buffer directly and
// must not run concurrently with an AccessPoint on the same Modem.
type Client struct {
	m      *Modem
	config Config

	mu       sync.Mutex
	host     string
	lastSent time.Time
}

// NewClient returns a client with no connection.
func NewClient(m *Modem) *Client {
	return &Client{m: m, config: m.config}
}

// Established reports whether the TCP session is believed to be up.
func (c *Client) Established() bool {
	return c.m.session.Get(FlagTCPEstablished)
}

// EstablishConnection closes any session on link 0 and opens a new one to
// host:port. The buffer is cleared whatever the outcome.
//
// CONNECT ends the attempt with StateSuccess, ERROR or CLOSED with StateError
// and ErrConnectFailed, and silence for the connect window with StateTimeout
// and ErrConnectTimeout.
func (c *Client) EstablishConnection(ctx context.Context, host string, port int) error {
	m := c.m
	m.session.Set(FlagTCPEstablished, false)

	if err := m.Send(at.CmdCloseLink); err != nil {
		return err
	}
	if err := sleep(ctx, c.config.CloseDelay); err != nil {
		return err
	}
	m.framer.Clear()

	c.mu.Lock()
	c.host = host
	c.mu.Unlock()

	m.logger.Info("Opening TCP connection", "host", host, "port", port)
	if err := m.Send(at.Start(host, port)); err != nil {
		return err
	}

	text, err := c.waitFor(ctx, c.config.ConnectTimeout, func(text string) bool {
		return strings.Contains(text, at.Connect) ||
			strings.Contains(text, at.ERROR) ||
			strings.Contains(text, at.Closed)
	})
	m.framer.Clear()
	if err != nil {
		return err
	}

	switch {
	case strings.Contains(text, at.Connect):
		m.session.Set(FlagTCPEstablished, true)
		m.setState(StateSuccess)
		m.logger.Info("TCP connection established", "host", host, "port", port)
		return nil
	case text != "":
		m.setState(StateError)
		m.logger.Warn("TCP connection failed", "host", host, "port", port)
		return ErrConnectFailed
	default:
		m.setState(StateTimeout)
		m.logger.Warn("Connection attempt timed out", "host", host, "port", port)
		return ErrConnectTimeout
	}
}

// SendPayload posts body to /data on the open session.
//
// Calls inside the minimum send interval return ErrRateLimited and requests
// larger than the maximum size return ErrPayloadTooLarge; neither touches the
// modem. A status poll reporting the link as gone, or no data prompt after
// every CIPSEND attempt, marks the connection not established.
func (c *Client) SendPayload(ctx context.Context, body string) error {
	m := c.m
	now := m.clock.Now()

	c.mu.Lock()
	if !c.lastSent.IsZero() && now.Sub(c.lastSent) < c.config.MinSendInterval {
		c.mu.Unlock()
		return ErrRateLimited
	}
	request := c.request(body)
	c.mu.Unlock()

	if len(request) > c.config.MaxRequestSize {
		m.logger.Warn("Data too large to send", "size", len(request), "max", c.config.MaxRequestSize)
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(request))
	}

	m.logger.Debug("Checking connection status")
	if err := m.Send(at.CmdConnectionState); err != nil {
		return err
	}
	if err := sleep(ctx, c.config.StatusDelay); err != nil {
		return err
	}
	status := m.framer.Snapshot()
	m.framer.Clear()
	if strings.Contains(status, at.StatusNoIP) || strings.Contains(status, at.StatusNoLink) {
		m.logger.Warn("Connection lost")
		m.session.Set(FlagTCPEstablished, false)
		m.setState(StateError)
		return ErrLinkLost
	}

	if err := c.awaitPrompt(ctx, at.Send(len(request))); err != nil {
		m.framer.Clear()
		return err
	}
	m.framer.Clear()

	m.logger.Debug("Sending data", "size", len(request))
	c.mu.Lock()
	c.lastSent = m.clock.Now()
	c.mu.Unlock()
	if err := m.Transmit([]byte(request)); err != nil {
		m.setState(StateError)
		return err
	}

	text, err := c.waitFor(ctx, c.config.SendAckTimeout, func(text string) bool {
		return strings.Contains(text, at.SendOK)
	})
	if err != nil {
		m.framer.Clear()
		return err
	}
	if text == "" {
		m.logger.Warn("Send timeout", "response", m.framer.Snapshot())
		m.framer.Clear()
		m.setState(StateTimeout)
		return ErrNoSendAck
	}
	m.framer.Clear()

	m.logger.Debug("Data sent successfully")
	m.setState(StateSuccess)
	return nil
}

// awaitPrompt issues cmd and watches for the data prompt, re-issuing cmd
// until the attempts run out.
func (c *Client) awaitPrompt(ctx context.Context, cmd string) error {
	m := c.m
	for attempt := 1; attempt <= c.config.PromptAttempts; attempt++ {
		if attempt > 1 {
			m.logger.Debug("Retrying CIPSEND", "attempt", attempt)
		}
		if err := m.Send(cmd); err != nil {
			return err
		}
		if err := sleep(ctx, c.config.SendSettle); err != nil {
			return err
		}

		text, err := c.waitFor(ctx, c.config.PromptTimeout, func(text string) bool {
			return strings.Contains(text, at.DataPrompt)
		})
		if err != nil {
			return err
		}
		if text != "" {
			return nil
		}
	}

	m.logger.Warn("No data prompt after retries", "attempts", c.config.PromptAttempts)
	m.session.Set(FlagTCPEstablished, false)
	m.setState(StateTimeout)
	return ErrNoPrompt
}

func (c *Client) request(body string) string {
	return fmt.Sprintf("POST /data HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Content-Type: application/json\r\n"+
		"Content-Length: %d\r\n"+
		"Connection: keep-alive\r\n\r\n"+
		"%s", c.host, len(body), body)
}

// waitFor polls the receive buffer every tick until match accepts it or the
// window closes. It returns the matching text, or "" when the window closed
// first.
func (c *Client) waitFor(ctx context.Context, window time.Duration, match func(string) bool) (string, error) {
	timer := time.NewTimer(window)
	defer timer.Stop()
	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()

	for {
		if text := c.m.framer.Snapshot(); match(text) {
			return text, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			if text := c.m.framer.Snapshot(); match(text) {
				return text, nil
			}
			return "", nil
		case <-ticker.C:
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
