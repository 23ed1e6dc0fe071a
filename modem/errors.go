package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has no usable transport.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrLoopRunning is returned when Start is called while the receive
	// goroutine is already running.
	ErrLoopRunning = errors.New("receive loop already running")

	// ErrInvalidStage is returned by SetStage for values outside the setup
	// sequence. The current stage is left unchanged.
	ErrInvalidStage = errors.New("invalid setup stage")

	// ErrInvalidState is returned by SetState for values outside the command
	// state set. The current state is left unchanged.
	ErrInvalidState = errors.New("invalid command state")

	// ErrRateLimited is returned when a payload is offered inside the minimum
	// send interval. Nothing is transmitted.
	ErrRateLimited = errors.New("payload dropped by send interval")

	// ErrPayloadTooLarge is returned when the framed HTTP request exceeds
	// the maximum request size. Nothing is transmitted.
	ErrPayloadTooLarge = errors.New("request too large to send")

	// ErrLinkLost is returned when the connection status poll reports the
	// TCP session as gone. The connection is marked not established.
	ErrLinkLost = errors.New("connection lost")

	// ErrNoPrompt is returned when the modem never offered the data prompt
	// after all CIPSEND attempts. The connection is marked not established.
	ErrNoPrompt = errors.New("no data prompt after retries")

	// ErrNoSendAck is returned when the request was transmitted but SEND OK
	// was not observed in time. The connection flag is left as is.
	ErrNoSendAck = errors.New("send not acknowledged")

	// ErrConnectFailed is returned when the modem answers a connection
	// attempt with ERROR or CLOSED.
	ErrConnectFailed = errors.New("TCP connection failed")

	// ErrConnectTimeout is returned when no connection outcome was observed
	// inside the connect window.
	ErrConnectTimeout = errors.New("TCP connection attempt timed out")
)
