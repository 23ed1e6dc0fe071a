package at

import "strings"

const (
	MaxSSIDLen     = 31
	MaxPasswordLen = 63
)

// Credentials are the Wi-Fi settings submitted through the configuration
// form. They live for one request-handling cycle and are never stored.
type Credentials struct {
	SSID     string
	Password string
}

// ParseCredentials extracts ssid and password from the first configuration
// form submission in text. Values end at '&', a space, a line break or the
// end of the text, are taken as sent (no form decoding), and are bounded to
// MaxSSIDLen and MaxPasswordLen bytes.
//
// A submission whose values cannot be quoted into a join command, because
// they hold a double quote, a backslash or a control byte, is not reported.
func ParseCredentials(text string) (Credentials, bool) {
	i := strings.Index(text, CredentialQuery)
	if i < 0 {
		return Credentials{}, false
	}
	query := text[i+len("GET /?"):]

	var c Credentials
	c.SSID = bounded(param(query, "ssid="), MaxSSIDLen)
	c.Password = bounded(param(query, "password="), MaxPasswordLen)
	if !quotable(c.SSID) || !quotable(c.Password) {
		return Credentials{}, false
	}
	return c, true
}

func quotable(v string) bool {
	return strings.IndexFunc(v, func(r rune) bool {
		return r == '"' || r == '\\' || r < 0x20 || r == 0x7f
	}) < 0
}

func param(query, key string) string {
	i := strings.Index(query, key)
	if i < 0 {
		return ""
	}
	v := query[i+len(key):]
	if end := strings.IndexAny(v, "& \r\n"); end >= 0 {
		v = v[:end]
	}
	return v
}

func bounded(v string, n int) string {
	if len(v) > n {
		return v[:n]
	}
	return v
}
