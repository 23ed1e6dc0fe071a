package at

import "strings"

// Signal is a level change reported by a response block. SignalNone means
// the block said nothing about the level.
type Signal int

const (
	SignalNone Signal = iota
	SignalUp
	SignalDown
)

// Block is everything a completed response block tells the caller. The
// scans are independent of each other and of the command that is outstanding.
type Block struct {
	Text   string
	Status Status
	// Credentials is set when the block carries a submitted configuration form.
	Credentials *Credentials
	// Station follows +STA_CONNECTED / +STA_DISCONNECTED.
	Station Signal
	// Link follows 0,CONNECT / 0,CLOSED.
	Link Signal
}

// Complete reports whether text contains the empty line that ends a block.
func Complete(text string) bool {
	return strings.Contains(text, CompletionMarker)
}

// Classify returns the terminal status of text. ok is false until the block
// is complete; a complete block without OK or ERROR yields StatusNone.
// OK wins when both tokens are present.
func Classify(text string) (status Status, ok bool) {
	if !Complete(text) {
		return StatusNone, false
	}
	switch {
	case strings.Contains(text, OK):
		return StatusSuccess, true
	case strings.Contains(text, ERROR):
		return StatusError, true
	}
	return StatusNone, true
}

// Inspect classifies a completed block and runs the session and credential
// scans against it. ok is false while the block is still incomplete.
func Inspect(text string) (Block, bool) {
	status, ok := Classify(text)
	if !ok {
		return Block{}, false
	}

	b := Block{Text: text, Status: status}

	if strings.Contains(text, CredentialQuery) {
		if c, found := ParseCredentials(text); found {
			b.Credentials = &c
		}
	}

	switch {
	case strings.Contains(text, UrcStationConnected):
		b.Station = SignalUp
	case strings.Contains(text, UrcStationDisconnected):
		b.Station = SignalDown
	}

	switch {
	case strings.Contains(text, LinkConnect):
		b.Link = SignalUp
	case strings.Contains(text, LinkClosed):
		b.Link = SignalDown
	}

	return b, true
}
