package modem

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
)

var (
	_ Transport = (*MockTransport)(nil)
	_ Dialer    = (*MockDialer)(nil)
	_ Transport = (*wsTransport)(nil)
)

func TestSerialDialer(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		dialer  SerialDialer
		ctx     context.Context
		wantErr error
		wantMsg string
	}{
		{
			name:    "Missing port name",
			dialer:  SerialDialer{},
			ctx:     context.Background(),
			wantMsg: "modem: serial port name is required",
		},
		{
			name:    "Nil context",
			dialer:  SerialDialer{PortName: "/dev/ttyUSB0"},
			wantMsg: "modem: context is nil",
		},
		{
			name:    "Canceled before opening",
			dialer:  SerialDialer{PortName: "/dev/wifigw-missing"},
			ctx:     canceled,
			wantErr: context.Canceled,
		},
		{
			name:    "Factory framing on a missing port",
			dialer:  SerialDialer{PortName: "/dev/wifigw-missing", BaudRate: 9600},
			ctx:     context.Background(),
			wantMsg: "open serial port /dev/wifigw-missing",
		},
		{
			name: "Explicit mode on a missing port",
			dialer: SerialDialer{PortName: "/dev/wifigw-missing", Mode: &serial.Mode{
				BaudRate: DefaultBaudRate,
				DataBits: 8,
				Parity:   serial.NoParity,
				StopBits: serial.OneStopBit,
			}},
			ctx:     context.Background(),
			wantMsg: "open serial port /dev/wifigw-missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport, err := tt.dialer.Dial(tt.ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if transport != nil {
				t.Error("no transport may be returned with an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got: %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("unexpected error message: %v", err)
			}
		})
	}
}

func TestWebSocketDialer_Dial_BadScheme(t *testing.T) {
	dialer := WebSocketDialer{URL: "http://localhost:8080/ws"}

	transport, err := dialer.Dial(context.Background())
	if err == nil {
		t.Fatal("expected error for non-websocket scheme")
	}
	if transport != nil {
		t.Error("expected nil transport for bad scheme")
	}
	if !strings.Contains(err.Error(), "unsupported URL scheme: http") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestWebSocketDialer_Dial(t *testing.T) {
	upgrader := websocket.Upgrader{}
	authCh := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCh <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Echo every message back as modem output.
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	dialer := WebSocketDialer{
		URL:      "ws" + strings.TrimPrefix(srv.URL, "http"),
		Username: "admin",
		Password: "secret",
	}

	transport, err := dialer.Dial(context.Background())
	if err != nil {
		t.Fatalf("unexpected dial error: %v", err)
	}
	defer transport.Close()

	if gotAuth := <-authCh; gotAuth != "Basic YWRtaW46c2VjcmV0" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}

	if _, err := transport.Write([]byte("AT\r\n")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	// Read in small pieces to exercise the message buffer.
	var got []byte
	buf := make([]byte, 2)
	for len(got) < 4 {
		n, err := transport.Read(buf)
		if err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "AT\r\n" {
		t.Errorf("expected echoed command, got %q", got)
	}
}
