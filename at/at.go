package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = "> "

	// CompletionMarker is the empty line that terminates one response block.
	CompletionMarker = "\r\n\r\n"

	// Response Codes
	OK     = "OK"
	ERROR  = "ERROR"
	SendOK = "SEND OK"

	// Connection markers
	Connect      = "CONNECT"
	Closed       = "CLOSED"
	DataPrompt   = ">"
	LinkConnect  = "0,CONNECT"
	LinkClosed   = "0,CLOSED"
	StatusNoIP   = "STATUS:4"
	StatusNoLink = "STATUS:5"

	// URCs (Unsolicited Result Codes) from the soft-AP
	UrcStationConnected    = "+STA_CONNECTED"
	UrcStationDisconnected = "+STA_DISCONNECTED"

	// CredentialQuery marks a submitted Wi-Fi configuration form.
	CredentialQuery = "GET /?ssid="
)

// Commands sent verbatim, without the trailing CRLF.
const (
	CmdAt              = "AT"
	CmdSetConnectMode  = "AT+CWMODE=3"
	CmdSetMultiConn    = "AT+CIPMUX=1"
	CmdStartServer     = "AT+CIPSERVER=1,80"
	CmdCloseLink       = "AT+CIPCLOSE=0"
	CmdConnectionState = "AT+CIPSTATUS"
)

// Status is the terminal classification of a completed response block.
type Status int

const (
	StatusNone    Status = iota // complete but unrecognized
	StatusSuccess               // block contains OK
	StatusError                 // block contains ERROR
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	default:
		return "NONE"
	}
}
