package at

import (
	"fmt"
	"strings"
)

// Line terminates a command for the wire.
func Line(cmd string) string {
	return strings.TrimRight(cmd, CRLF) + CRLF
}

// Send announces n bytes of raw data on link 0.
func Send(n int) string {
	return fmt.Sprintf("AT+CIPSEND=0,%d", n)
}

// Start opens a TCP session on link 0.
func Start(host string, port int) string {
	return fmt.Sprintf(`AT+CIPSTART=0,"TCP","%s",%d`, host, port)
}

// Join asks the station interface to associate with an access point.
func Join(c Credentials) string {
	return fmt.Sprintf(`AT+CWJAP="%s","%s"`, c.SSID, c.Password)
}
