package monitor_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"i4.energy/across/wifigw/modem"
	"i4.energy/across/wifigw/monitor"
)

func dialViewer(t *testing.T, hub *monitor.Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, time.Millisecond)
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := monitor.NewHub()
	conn := dialViewer(t, hub)

	hub.Broadcast(monitor.Message{Type: "sample", Data: map[string]any{"ACC": 1}})

	var msg map[string]any
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "sample", msg["type"])
	assert.Equal(t, map[string]any{"ACC": float64(1)}, msg["data"])
}

func TestHubRemovesClosedViewers(t *testing.T) {
	hub := monitor.NewHub()
	conn := dialViewer(t, hub)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, time.Millisecond)
}

func TestForward(t *testing.T) {
	hub := monitor.NewHub()
	conn := dialViewer(t, hub)

	events := make(chan modem.Event, 2)
	events <- modem.Event{Kind: modem.EventStage, Stage: modem.StageStartServer}
	events <- modem.Event{Kind: modem.EventEdge, Edge: modem.Edge{Flag: modem.FlagClientConnected, Up: false}}
	close(events)

	hub.Forward(context.Background(), events)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	var stage struct {
		Type string            `json:"type"`
		Data monitor.EventData `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&stage))
	assert.Equal(t, "stage", stage.Type)
	assert.Equal(t, "AT_START_SERVER", stage.Data.Stage)

	var edge struct {
		Type string            `json:"type"`
		Data monitor.EventData `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&edge))
	assert.Equal(t, "edge", edge.Type)
	assert.Equal(t, "client_connected", edge.Data.Flag)
	require.NotNil(t, edge.Data.Up)
	assert.False(t, *edge.Data.Up)
}

func TestEventMessageCredentialsCarrySSIDOnly(t *testing.T) {
	msg := monitor.EventMessage(modem.Event{Kind: modem.EventCredentials, Text: "Home"})
	data, ok := msg.Data.(monitor.EventData)
	require.True(t, ok)
	assert.Equal(t, "credentials", msg.Type)
	assert.Equal(t, "Home", data.Text)
	assert.Empty(t, data.Status)
}

func TestHubDropsStalledViewer(t *testing.T) {
	hub := monitor.NewHub()
	hub.WriteTimeout = 20 * time.Millisecond
	dialViewer(t, hub) // never reads

	payload := strings.Repeat("x", 1<<20)
	deadline := time.Now().Add(10 * time.Second)
	for hub.Len() > 0 && time.Now().Before(deadline) {
		start := time.Now()
		hub.Broadcast(monitor.Message{Type: "sample", Data: payload})
		require.True(t, time.Since(start) < 2*time.Second, "a stalled viewer must not block the broadcast")
	}
	assert.Equal(t, 0, hub.Len())
}
