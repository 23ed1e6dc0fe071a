package modem

import (
	"log/slog"
	"time"
)

// MinBufferSize is the smallest receive buffer the framer accepts.
const MinBufferSize = 2048

// Clock supplies the monotonic time used to stamp and age exchanges.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config holds the protocol timings and collaborators of a Modem.
type Config struct {
	Dialer Dialer
	Logger *slog.Logger
	Clock  Clock

	// BufferSize is the receive buffer capacity in bytes.
	BufferSize int
	// ATTimeout bounds one provisioning exchange.
	ATTimeout time.Duration
	// ConnectTimeout bounds the wait for a CIPSTART outcome.
	ConnectTimeout time.Duration
	// PromptTimeout bounds each wait for the data prompt.
	PromptTimeout time.Duration
	// PromptAttempts is how many times CIPSEND is issued before giving up.
	PromptAttempts int
	// SendAckTimeout bounds the wait for SEND OK.
	SendAckTimeout time.Duration
	// MinSendInterval is the payload rate limit.
	MinSendInterval time.Duration
	// MaxRequestSize is the largest HTTP request handed to the modem.
	MaxRequestSize int
	// TickInterval is the period of the foreground loop and of buffer polls.
	TickInterval time.Duration
	// CloseDelay is the pause after closing a stale link.
	CloseDelay time.Duration
	// StatusDelay is the pause between CIPSTATUS and reading its answer.
	StatusDelay time.Duration
	// SendSettle is the pause after each CIPSEND before watching for the prompt.
	SendSettle time.Duration
	// RetryDelay is the pause before an automatic retry.
	RetryDelay time.Duration

	// Page is the HTTP response served to clients of the access point.
	Page string
	// AutoProvision re-arms the next setup command without an external trigger.
	AutoProvision bool
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.BufferSize < MinBufferSize {
		c.BufferSize = 4 * MinBufferSize
	}
	if c.ATTimeout == 0 {
		c.ATTimeout = 5 * time.Second
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.PromptTimeout == 0 {
		c.PromptTimeout = time.Second
	}
	if c.PromptAttempts == 0 {
		c.PromptAttempts = 3
	}
	if c.SendAckTimeout == 0 {
		c.SendAckTimeout = 2 * time.Second
	}
	if c.MinSendInterval == 0 {
		c.MinSendInterval = 500 * time.Millisecond
	}
	if c.MaxRequestSize == 0 {
		c.MaxRequestSize = 512
	}
	if c.TickInterval == 0 {
		c.TickInterval = 10 * time.Millisecond
	}
	if c.CloseDelay == 0 {
		c.CloseDelay = 100 * time.Millisecond
	}
	if c.StatusDelay == 0 {
		c.StatusDelay = 100 * time.Millisecond
	}
	if c.SendSettle == 0 {
		c.SendSettle = 200 * time.Millisecond
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	if c.Page == "" {
		c.Page = ConfigPage
	}
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder with no fields set.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

func (b *ConfigBuilder) WithClock(c Clock) *ConfigBuilder {
	b.config.Clock = c
	return b
}

func (b *ConfigBuilder) WithBufferSize(n int) *ConfigBuilder {
	b.config.BufferSize = n
	return b
}

func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.ATTimeout = d
	return b
}

func (b *ConfigBuilder) WithConnectTimeout(d time.Duration) *ConfigBuilder {
	b.config.ConnectTimeout = d
	return b
}

func (b *ConfigBuilder) WithPromptTimeout(d time.Duration, attempts int) *ConfigBuilder {
	b.config.PromptTimeout = d
	b.config.PromptAttempts = attempts
	return b
}

func (b *ConfigBuilder) WithSendAckTimeout(d time.Duration) *ConfigBuilder {
	b.config.SendAckTimeout = d
	return b
}

func (b *ConfigBuilder) WithMinSendInterval(d time.Duration) *ConfigBuilder {
	b.config.MinSendInterval = d
	return b
}

func (b *ConfigBuilder) WithMaxRequestSize(n int) *ConfigBuilder {
	b.config.MaxRequestSize = n
	return b
}

func (b *ConfigBuilder) WithTickInterval(d time.Duration) *ConfigBuilder {
	b.config.TickInterval = d
	return b
}

// WithDelays sets the fixed pauses of the connection workflow.
func (b *ConfigBuilder) WithDelays(closeDelay, statusDelay, sendSettle time.Duration) *ConfigBuilder {
	b.config.CloseDelay = closeDelay
	b.config.StatusDelay = statusDelay
	b.config.SendSettle = sendSettle
	return b
}

func (b *ConfigBuilder) WithRetryDelay(d time.Duration) *ConfigBuilder {
	b.config.RetryDelay = d
	return b
}

func (b *ConfigBuilder) WithPage(page string) *ConfigBuilder {
	b.config.Page = page
	return b
}

func (b *ConfigBuilder) WithAutoProvision(on bool) *ConfigBuilder {
	b.config.AutoProvision = on
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
