package modem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"i4.energy/across/wifigw/at"
)

// AccessPoint drives the modem through the provisioning sequence that turns
// it into an HTTP access point, then keeps serving the configured page.
type AccessPoint struct {
	m      *Modem
	config Config

	mu    sync.Mutex
	stage Stage

	// pending is the short-press action; it is consumed once per tick.
	pending atomic.Bool
	// joining is set while the outstanding exchange is a credential join,
	// which is not part of the stage sequence.
	joining bool
}

// NewAccessPoint returns an access point at StageTest.
func NewAccessPoint(m *Modem) *AccessPoint {
	return &AccessPoint{m: m, config: m.config, stage: StageTest}
}

func (ap *AccessPoint) Stage() Stage {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.stage
}

// SetStage moves the sequence to s. Values outside the sequence are rejected
// and the current stage is kept.
func (ap *AccessPoint) SetStage(s Stage) error {
	if !s.Valid() {
		ap.m.logger.Warn("Rejected setup stage", "stage", int(s))
		return fmt.Errorf("%w: %d", ErrInvalidStage, int(s))
	}

	ap.mu.Lock()
	changed := ap.stage != s
	ap.stage = s
	ap.mu.Unlock()

	if changed {
		ap.m.logger.Info("Setup stage changed", "stage", s.String())
		ap.m.emit(Event{Kind: EventStage, Stage: s})
	}
	return nil
}

// Trigger requests that the current stage's command be sent on the next tick.
// It is safe to call from any goroutine.
func (ap *AccessPoint) Trigger() {
	ap.pending.Store(true)
}

// Run ticks the access point until ctx is done or the modem stops receiving.
// It starts the receive goroutine if it is not running yet.
func (ap *AccessPoint) Run(ctx context.Context) error {
	if err := ap.m.Start(ctx); err != nil && !errors.Is(err, ErrLoopRunning) {
		return err
	}

	ticker := time.NewTicker(ap.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ap.m.Done():
			if err := ap.m.Err(); err != nil {
				return fmt.Errorf("modem receive stopped: %w", err)
			}
			return ErrNotInitialized
		case <-ticker.C:
			ap.Tick(ap.m.clock.Now())
		}
	}
}

// Tick runs one iteration of the foreground loop.
func (ap *AccessPoint) Tick(now time.Time) {
	ap.m.ReportEdges()

	if block, ok := ap.m.Process(); ok && block.Credentials != nil {
		ap.joining = true
	}

	tracker := ap.m.tracker
	if tracker.IsFinished() {
		ap.HandleResponse()
	}

	if tracker.Poll(now, ap.config.ATTimeout) {
		ap.m.logger.Warn("Command timed out", "stage", ap.Stage().String(), "command", firstLine(tracker.Command()))
		ap.m.emit(Event{Kind: EventStatus, Status: StateTimeout})
	}

	if tracker.State() == StateSendRequested {
		ap.Configure()
	}

	if ap.pending.Swap(false) {
		ap.m.setState(StateSendRequested)
	}

	if ap.config.AutoProvision && tracker.State() == StateIdle &&
		now.Sub(tracker.Since()) >= ap.config.RetryDelay && ap.ready() {
		ap.m.setState(StateSendRequested)
	}
}

// ready reports whether the automatic loop may send the current stage. The
// page is only pushed while a client has a link open.
func (ap *AccessPoint) ready() bool {
	switch ap.Stage() {
	case StageSendHTMLHeader, StageSendHTML:
		return ap.m.session.Get(FlagRequestingPage)
	default:
		return true
	}
}

// HandleResponse settles a finished exchange. Success advances the stage;
// any other terminal state keeps it for a retry. Either way the buffer is
// cleared and the state returns to Idle.
func (ap *AccessPoint) HandleResponse() {
	state := ap.m.tracker.State()
	if !state.Terminal() {
		return
	}

	stage := ap.Stage()
	switch {
	case ap.joining:
		ap.joining = false
		ap.m.logger.Info("Join request finished", "status", state.String())
	case state == StateSuccess:
		_ = ap.SetStage(stage.Next())
	default:
		ap.m.logger.Warn("Setup command failed", "stage", stage.String(), "status", state.String())
	}

	ap.m.framer.Clear()
	ap.m.setState(StateIdle)
}

// Configure sends the command of the current stage.
func (ap *AccessPoint) Configure() {
	page := ap.config.Page

	var cmd string
	send := ap.m.Send
	switch stage := ap.Stage(); stage {
	case StageTest:
		cmd = at.CmdAt
	case StageSetConnectMode:
		cmd = at.CmdSetConnectMode
	case StageSetMaxConnections:
		cmd = at.CmdSetMultiConn
	case StageStartServer:
		cmd = at.CmdStartServer
	case StageSendHTMLHeader:
		cmd = at.Send(len(page))
	case StageSendHTML:
		cmd, send = page, ap.m.SendRaw
	default:
		ap.m.logger.Warn("No command for setup stage", "stage", stage.String())
		ap.m.setState(StateIdle)
		return
	}

	if err := send(cmd); err != nil {
		ap.m.logger.Warn("Failed to send setup command", "stage", ap.Stage().String(), "error", err)
	}
}
