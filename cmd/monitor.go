package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"i4.energy/across/wifigw/modem"
	"i4.energy/across/wifigw/monitor"
)

// startMonitor forwards modem events to WebSocket viewers on addr. With no
// address the events are only logged at debug level. The returned function
// shuts the server down.
func startMonitor(ctx context.Context, addr string, events <-chan modem.Event, logger *slog.Logger) func() {
	if addr == "" {
		go drainEvents(ctx, events, logger)
		return func() {}
	}

	hub := monitor.NewHub()
	go hub.Forward(ctx, events)

	mux := http.NewServeMux()
	mux.Handle("GET /ws", hub.Handler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("Starting monitor server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Monitor server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Closing monitor server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to gracefully shutdown server", "error", err)
		}
	}
}

func drainEvents(ctx context.Context, events <-chan modem.Event, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			logger.Debug("Modem event", "kind", e.Kind.String(), "status", e.Status.String(), "stage", e.Stage.String())
		}
	}
}
