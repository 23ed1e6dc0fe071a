package modem_test

import (
	"io"

	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/wifigw/modem"
)

// MockSequenceBuilder scripts a MockTransport: every expected command write
// queues the modem's reply, and a single Read expectation serves the replies
// to the receive goroutine until the transport is closed.
type MockSequenceBuilder struct {
	transport *modem.MockTransport
	replies   chan []byte
	calls     []any
}

func NewMockSequence(transport *modem.MockTransport) *MockSequenceBuilder {
	b := &MockSequenceBuilder{
		transport: transport,
		replies:   make(chan []byte, 16),
		calls:     []any{},
	}
	transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		data, ok := <-b.replies
		if !ok {
			return 0, io.EOF
		}
		return copy(p, data), nil
	}).AnyTimes()
	return b
}

func (b *MockSequenceBuilder) expect(cmd, reply string) *MockSequenceBuilder {
	line := cmd + "\r\n"
	b.calls = append(b.calls,
		b.transport.EXPECT().Write([]byte(line)).DoAndReturn(func(p []byte) (int, error) {
			if reply != "" {
				b.replies <- []byte(reply)
			}
			return len(p), nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) AT() *MockSequenceBuilder {
	return b.expect("AT", "\r\nOK\r\n\r\n")
}

func (b *MockSequenceBuilder) ConnectMode() *MockSequenceBuilder {
	return b.expect("AT+CWMODE=3", "\r\nOK\r\n\r\n")
}

func (b *MockSequenceBuilder) MultiConn() *MockSequenceBuilder {
	return b.expect("AT+CIPMUX=1", "\r\nOK\r\n\r\n")
}

func (b *MockSequenceBuilder) StartServer() *MockSequenceBuilder {
	return b.expect("AT+CIPSERVER=1,80", "\r\nOK\r\n\r\n")
}

func (b *MockSequenceBuilder) ConnectModeError() *MockSequenceBuilder {
	return b.expect("AT+CWMODE=3", "\r\nERROR\r\n\r\n")
}

// Close expects the transport to be closed and ends the reads with EOF.
func (b *MockSequenceBuilder) Close() *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Close().DoAndReturn(func() error {
			close(b.replies)
			return nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
