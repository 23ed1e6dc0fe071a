// Package telemetry turns sensor readings into the JSON documents the modem
// client posts to the collector.
package telemetry

import "fmt"

// Sample is one three-axis reading.
type Sample struct {
	// Label names the sensor, e.g. "ACC", "GYR" or "MAG".
	Label string
	// Packet is the running packet number; it wraps at 65535.
	Packet uint16
	X, Y, Z float64
}

// JSON renders s as {"<Label>":<Packet>,"X":<x>,"Y":<y>,"Z":<z>} with three
// decimals per axis. The layout is fixed; the collector relies on the label
// being the first key.
func (s Sample) JSON() string {
	return fmt.Sprintf(`{"%s":%d,"X":%.3f,"Y":%.3f,"Z":%.3f}`, s.Label, s.Packet, s.X, s.Y, s.Z)
}
