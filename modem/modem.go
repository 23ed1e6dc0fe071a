package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"i4.energy/across/wifigw/at"
)

// Modem represents a serial-attached Wi-Fi modem that speaks the AT dialect.
//
// A single receive goroutine (started by Start) reads the transport and feeds
// every byte into the Framer; it stands in for the UART receive interrupt.
// Everything else runs in the caller's foreground loop: sending commands,
// classifying completed blocks, and clearing the buffer. Only one exchange is
// outstanding at a time and the Tracker records it.
type Modem struct {
	// transport provides the physical connection to the modem (serial, websocket, etc.)
	transport Transport
	// config contains the protocol timings
	config Config
	logger *slog.Logger
	clock  Clock

	framer  *Framer
	tracker *Tracker
	session *Session

	// events receives advisory notifications. It is buffered and drops
	// events when the consumer falls behind.
	events chan Event

	mu      sync.Mutex
	closed  bool
	running bool
	done    chan struct{}
	readErr error
}

// New creates a new Modem instance with the given configuration.
// It establishes the transport connection but does not start reading;
// call Start for that.
func New(ctx context.Context, config Config) (*Modem, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	return &Modem{
		transport: transport,
		config:    config,
		logger:    config.Logger,
		clock:     config.Clock,
		framer:    NewFramer(config.BufferSize),
		tracker:   NewTracker(),
		session:   &Session{},
		events:    make(chan Event, 100), // Buffered to prevent blocking on events
		done:      make(chan struct{}),
	}, nil
}

// Start launches the receive goroutine. It must be called exactly once.
// The goroutine runs until the transport returns an error, which Close
// causes; Done is closed when it exits.
func (m *Modem) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrAlreadyClosed
	}
	if m.running {
		return ErrLoopRunning
	}
	m.running = true

	go m.receive(ctx)
	return nil
}

func (m *Modem) receive(ctx context.Context) {
	defer close(m.done)

	buf := make([]byte, 256)
	for {
		n, err := m.transport.Read(buf)
		for _, b := range buf[:n] {
			m.framer.OnByteReceived(b)
		}
		if err != nil {
			m.mu.Lock()
			closed := m.closed
			m.readErr = err
			m.mu.Unlock()

			if !closed && ctx.Err() == nil && !errors.Is(err, io.EOF) {
				m.logger.Error("Modem read failed", "error", err)
			}
			return
		}
	}
}

// Done is closed when the receive goroutine has exited.
func (m *Modem) Done() <-chan struct{} {
	return m.done
}

// Err returns the error that stopped the receive goroutine, if any.
func (m *Modem) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readErr
}

// Events returns a read-only channel of advisory notifications: state and
// stage changes, session edges and response blocks. The channel is
// buffered, but may drop events if not consumed fast enough.
func (m *Modem) Events() <-chan Event {
	return m.events
}

// Close shuts down the modem and releases all resources.
// Closing the transport also ends the receive goroutine.
func (m *Modem) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrAlreadyClosed
	}
	m.closed = true
	m.mu.Unlock()

	return m.transport.Close()
}

func (m *Modem) Framer() *Framer   { return m.framer }
func (m *Modem) Tracker() *Tracker { return m.tracker }
func (m *Modem) Session() *Session { return m.session }
func (m *Modem) Config() Config    { return m.config }

// Send starts a new exchange: it clears the buffer, marks cmd as the
// outstanding command in StateWaiting and writes it terminated by CRLF.
// A write failure ends the exchange with StateError.
func (m *Modem) Send(cmd string) error {
	return m.exchange(cmd, at.Line(cmd))
}

// SendRaw starts an exchange like Send but writes data byte for byte, as
// announced by a preceding CIPSEND.
func (m *Modem) SendRaw(data string) error {
	return m.exchange(data, data)
}

func (m *Modem) exchange(cmd, wire string) error {
	if m.isClosed() {
		return ErrAlreadyClosed
	}

	m.framer.Clear()
	m.tracker.Begin(cmd, m.clock.Now())
	m.emit(Event{Kind: EventStatus, Status: StateWaiting})
	m.logger.Debug("Sending command", "command", firstLine(cmd))

	if _, err := m.transport.Write([]byte(wire)); err != nil {
		m.setState(StateError)
		return fmt.Errorf("write command %q: %w", firstLine(cmd), err)
	}
	return nil
}

// Transmit writes raw bytes without starting an exchange.
func (m *Modem) Transmit(p []byte) error {
	if m.isClosed() {
		return ErrAlreadyClosed
	}
	if _, err := m.transport.Write(p); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// SetState moves the command state and reports the change.
func (m *Modem) SetState(s CommandState) error {
	changed, err := m.tracker.SetState(s, m.clock.Now())
	if err != nil {
		m.logger.Debug("Rejected command state", "state", int(s))
		return err
	}
	if changed {
		m.logger.Debug("Response status changed", "status", s.String())
		m.emit(Event{Kind: EventStatus, Status: s})
	}
	return nil
}

func (m *Modem) setState(s CommandState) {
	_ = m.SetState(s)
}

// Process handles a completed response block, if the buffer holds one.
//
// The block is taken from the buffer and cleared in one step. The session
// levels follow the station and link markers. A configuration form
// submission starts a join with the submitted credentials; otherwise an OK
// or ERROR in the block becomes the state of the outstanding exchange. A
// block with neither leaves the exchange to its timeout.
func (m *Modem) Process() (at.Block, bool) {
	text, ok := m.framer.Consume(at.Complete)
	if !ok {
		return at.Block{}, false
	}
	block, _ := at.Inspect(text)

	m.logger.Debug("Data reception complete", "length", len(text), "lines", at.Lines(text))
	m.emit(Event{Kind: EventResponse, Text: text})

	m.session.Apply(block)

	if c := block.Credentials; c != nil {
		m.logger.Info("Received Wi-Fi credentials", "ssid", c.SSID)
		m.emit(Event{Kind: EventCredentials, Text: c.SSID})
		if err := m.Send(at.Join(*c)); err != nil {
			m.logger.Warn("Failed to send join request", "error", err)
		}
		return block, true
	}

	switch block.Status {
	case at.StatusSuccess:
		m.setState(StateSuccess)
	case at.StatusError:
		m.setState(StateError)
	}
	return block, true
}

// ReportEdges emits one event per session flag that changed since the last
// call.
func (m *Modem) ReportEdges() []Edge {
	edges := m.session.Edges()
	for _, e := range edges {
		m.logger.Info("Session changed", "flag", e.Flag.String(), "up", e.Up)
		m.emit(Event{Kind: EventEdge, Edge: e})
	}
	return edges
}

func (m *Modem) emit(e Event) {
	e.Time = m.clock.Now()
	select {
	case m.events <- e:
	default:
		// Event channel is full - drop the event
	}
}

func (m *Modem) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
