package modem

import "fmt"

// Stage is one step of the access-point provisioning sequence.
type Stage int

const (
	StageTest Stage = iota
	StageSetConnectMode
	StageSetMaxConnections
	StageStartServer
	StageSendHTMLHeader
	StageSendHTML
	// StageSendConnectRequest is reserved for a credential-driven join and
	// is never entered by the sequence.
	StageSendConnectRequest
)

var stageNames = [...]string{
	StageTest:               "AT_TEST",
	StageSetConnectMode:     "AT_SET_CONNECT_MODE",
	StageSetMaxConnections:  "AT_SET_MAX_CONNECTIONS",
	StageStartServer:        "AT_START_SERVER",
	StageSendHTMLHeader:     "AT_SEND_HTML_HEADER",
	StageSendHTML:           "AT_SEND_HTML",
	StageSendConnectRequest: "AT_SEND_CONNECT_REQUEST",
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	return s >= StageTest && s <= StageSendConnectRequest
}

// Next is the stage entered after s succeeds. The page is served over and
// over, so SendHTML leads back to SendHTMLHeader. The reserved stage has no
// successor and stays put.
func (s Stage) Next() Stage {
	switch s {
	case StageTest:
		return StageSetConnectMode
	case StageSetConnectMode:
		return StageSetMaxConnections
	case StageSetMaxConnections:
		return StageStartServer
	case StageStartServer:
		return StageSendHTMLHeader
	case StageSendHTMLHeader:
		return StageSendHTML
	case StageSendHTML:
		return StageSendHTMLHeader
	default:
		return s
	}
}
