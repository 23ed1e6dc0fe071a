package monitor

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"i4.energy/across/wifigw/modem"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The debug channel is meant for the local network.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades viewers and registers them with the hub. Incoming
// messages are discarded; the read loop only detects disconnects.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := h.Add(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.Remove(client)
				return
			}
		}
	})
}

// EventData is the payload of a forwarded modem event.
type EventData struct {
	Time   time.Time `json:"time"`
	Status string    `json:"status,omitempty"`
	Stage  string    `json:"stage,omitempty"`
	Flag   string    `json:"flag,omitempty"`
	Up     *bool     `json:"up,omitempty"`
	Text   string    `json:"text,omitempty"`
}

// EventMessage converts a modem event for viewers. Only the fields that
// belong to the event kind are set.
func EventMessage(e modem.Event) Message {
	data := EventData{Time: e.Time}
	switch e.Kind {
	case modem.EventStatus:
		data.Status = e.Status.String()
	case modem.EventStage:
		data.Stage = e.Stage.String()
	case modem.EventEdge:
		up := e.Edge.Up
		data.Flag = e.Edge.Flag.String()
		data.Up = &up
	case modem.EventCredentials:
		data.Text = e.Text
	case modem.EventResponse:
		data.Text = e.Text
	}
	return Message{Type: e.Kind.String(), Data: data}
}

// Forward broadcasts every event until ctx is done or events is closed.
func (h *Hub) Forward(ctx context.Context, events <-chan modem.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			h.Broadcast(EventMessage(e))
		}
	}
}
