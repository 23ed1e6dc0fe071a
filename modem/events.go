package modem

import "time"

// EventKind tells which field of an Event is meaningful.
type EventKind int

const (
	// EventStatus reports a command state change in Status.
	EventStatus EventKind = iota
	// EventStage reports a setup stage change in Stage.
	EventStage
	// EventEdge reports a session flag change in Edge.
	EventEdge
	// EventCredentials reports a configuration form submission; Text holds
	// the SSID only.
	EventCredentials
	// EventResponse carries a completed response block in Text.
	EventResponse
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "status"
	case EventStage:
		return "stage"
	case EventEdge:
		return "edge"
	case EventCredentials:
		return "credentials"
	case EventResponse:
		return "response"
	default:
		return "unknown"
	}
}

// Event is one advisory notification of the modem engine.
type Event struct {
	Kind   EventKind
	Time   time.Time
	Status CommandState
	Stage  Stage
	Edge   Edge
	Text   string
}
