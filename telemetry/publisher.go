package telemetry

//go:generate go tool mockgen -destination=mocks.go -package=telemetry . Uplink,Source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"i4.energy/across/wifigw/modem"
)

// Uplink is the connection a Publisher pushes documents through.
// *modem.Client implements it.
type Uplink interface {
	Established() bool
	EstablishConnection(ctx context.Context, host string, port int) error
	SendPayload(ctx context.Context, body string) error
}

// Publisher moves samples from a Source to the collector over an Uplink.
type Publisher struct {
	Uplink Uplink
	Source Source
	Logger *slog.Logger

	Host string
	Port int
	// RetryDelay is the pause after a failed connection attempt.
	RetryDelay time.Duration

	// OnSent, when set, is called for every sample the modem acknowledged.
	OnSent func(Sample)
}

// Run publishes until the source is exhausted, which returns nil, or ctx is
// done. Samples offered inside the uplink's send interval are dropped; any
// other send failure is logged and the connection is re-established when
// the uplink reports it down.
func (p *Publisher) Run(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retry := p.RetryDelay
	if retry <= 0 {
		retry = time.Second
	}

	var sent, dropped int
	defer func() {
		logger.Info("Publisher stopped", "sent", sent, "dropped", dropped)
	}()

	for {
		if !p.Uplink.Established() {
			if err := p.Uplink.EstablishConnection(ctx, p.Host, p.Port); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("Connection attempt failed", "host", p.Host, "port", p.Port, "error", err)
				if err := wait(ctx, retry); err != nil {
					return err
				}
				continue
			}
		}

		sample, err := p.Source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrMalformedLine):
			logger.Warn("Skipping sample", "error", err)
			continue
		case err != nil:
			return err
		}

		err = p.Uplink.SendPayload(ctx, sample.JSON())
		switch {
		case err == nil:
			sent++
			logger.Debug("Sample sent", "label", sample.Label, "packet", sample.Packet)
			if p.OnSent != nil {
				p.OnSent(sample)
			}
		case errors.Is(err, modem.ErrRateLimited):
			dropped++
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			dropped++
			logger.Warn("Failed to send sample", "label", sample.Label, "packet", sample.Packet, "error", err)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
