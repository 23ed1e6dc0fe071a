package modem

import (
	"fmt"
	"sync"
	"time"
)

// CommandState is the progress of the one exchange the modem allows at a
// time. The terminal values sort below StateWaiting.
type CommandState int

const (
	StateTimeout CommandState = iota
	StateSuccess
	StateError
	StateWaiting
	StateIdle
	StateSendRequested
)

func (s CommandState) String() string {
	switch s {
	case StateTimeout:
		return "TIMEOUT"
	case StateSuccess:
		return "SUCCESS"
	case StateError:
		return "ERROR"
	case StateWaiting:
		return "WAITING"
	case StateIdle:
		return "IDLE"
	case StateSendRequested:
		return "SEND_REQUEST"
	default:
		return fmt.Sprintf("CommandState(%d)", int(s))
	}
}

// Valid reports whether s is one of the defined states.
func (s CommandState) Valid() bool {
	return s >= StateTimeout && s <= StateSendRequested
}

// Terminal reports whether s ends an exchange.
func (s CommandState) Terminal() bool {
	return s >= StateTimeout && s < StateWaiting
}

// Tracker owns the outstanding exchange: the command text, when it was
// issued, and the state it has reached.
type Tracker struct {
	mu      sync.Mutex
	state   CommandState
	command string
	since   time.Time
}

// NewTracker returns a tracker in StateIdle.
func NewTracker() *Tracker {
	return &Tracker{state: StateIdle}
}

// SetState is the single mutator of the command state. Entering StateWaiting
// stamps the issue time. It reports whether the state changed.
func (t *Tracker) SetState(s CommandState, now time.Time) (bool, error) {
	if !s.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidState, int(s))
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := t.state != s
	t.state = s
	if changed || s == StateWaiting {
		t.since = now
	}
	return changed, nil
}

// Begin records cmd as the outstanding exchange issued at now.
func (t *Tracker) Begin(cmd string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateWaiting
	t.command = cmd
	t.since = now
}

// Poll forces StateTimeout once an exchange has waited longer than timeout.
// It reports true only on the call that made the transition.
func (t *Tracker) Poll(now time.Time, timeout time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateWaiting || now.Sub(t.since) <= timeout {
		return false
	}
	t.state = StateTimeout
	t.since = now
	return true
}

// IsFinished reports whether the exchange reached a terminal state.
func (t *Tracker) IsFinished() bool {
	return t.State().Terminal()
}

func (t *Tracker) State() CommandState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Since is when the current state was entered.
func (t *Tracker) Since() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.since
}

// Pending returns the outstanding command and its issue time.
func (t *Tracker) Pending() (string, time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateWaiting {
		return "", time.Time{}, false
	}
	return t.command, t.since, true
}

// Command is the text of the most recent exchange.
func (t *Tracker) Command() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.command
}
