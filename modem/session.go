package modem

import (
	"sync"

	"i4.energy/across/wifigw/at"
)

// Flag names one boolean of the connection session.
type Flag int

const (
	FlagTCPEstablished Flag = iota
	FlagClientConnected
	FlagRequestingPage
	flagCount
)

func (f Flag) String() string {
	switch f {
	case FlagTCPEstablished:
		return "tcp_established"
	case FlagClientConnected:
		return "client_connected"
	case FlagRequestingPage:
		return "client_requesting_page"
	default:
		return "unknown"
	}
}

// Edge is a change of one session flag.
type Edge struct {
	Flag Flag
	Up   bool
}

// Session holds the current level of each flag and the level last reported.
// The shadow copy exists only to detect edges.
type Session struct {
	mu     sync.Mutex
	level  [flagCount]bool
	shadow [flagCount]bool
}

// Set updates the level of f.
func (s *Session) Set(f Flag, v bool) {
	if f < 0 || f >= flagCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level[f] = v
}

// Get returns the current level of f.
func (s *Session) Get(f Flag) bool {
	if f < 0 || f >= flagCount {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level[f]
}

// Apply takes the client levels reported by a completed block.
func (s *Session) Apply(b at.Block) {
	switch b.Station {
	case at.SignalUp:
		s.Set(FlagClientConnected, true)
	case at.SignalDown:
		s.Set(FlagClientConnected, false)
	}
	switch b.Link {
	case at.SignalUp:
		s.Set(FlagRequestingPage, true)
	case at.SignalDown:
		s.Set(FlagRequestingPage, false)
	}
}

// Edges returns every flag whose level differs from the last report and
// records the new levels as reported.
func (s *Session) Edges() []Edge {
	s.mu.Lock()
	defer s.mu.Unlock()

	var edges []Edge
	for f := range flagCount {
		if s.level[f] == s.shadow[f] {
			continue
		}
		s.shadow[f] = s.level[f]
		edges = append(edges, Edge{Flag: f, Up: s.level[f]})
	}
	return edges
}
