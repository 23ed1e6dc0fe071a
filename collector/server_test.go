package collector_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"i4.energy/across/wifigw/collector"
	"i4.energy/across/wifigw/monitor"
)

func TestRoot(t *testing.T) {
	srv := &collector.Server{}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "connection works\n", rec.Body.String())
}

func TestData(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		code    int
		message string
	}{
		{"accepts a sample", http.MethodPost, `{"ACC":12,"X":0.010,"Y":-0.020,"Z":9.810}`, http.StatusOK, ""},
		{"rejects malformed JSON", http.MethodPost, `{"ACC":12,`, http.StatusBadRequest, "unexpected EOF"},
		{"rejects an empty object", http.MethodPost, `{}`, http.StatusBadRequest, "empty document"},
		{"rejects GET", http.MethodGet, "", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &collector.Server{}

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tt.method, "/data", strings.NewReader(tt.body)))

			assert.Equal(t, tt.code, rec.Code)
			if tt.message != "" {
				var resp struct {
					Message string `json:"message"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Contains(t, resp.Message, tt.message)
			}
		})
	}
}

func TestDataIsBroadcast(t *testing.T) {
	hub := monitor.NewHub()
	ts := httptest.NewServer(&collector.Server{Hub: hub})
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, time.Millisecond)

	resp, err := http.Post(ts.URL+"/data", "application/json", strings.NewReader(`{"MAG":3,"X":0.100,"Y":0.200,"Z":0.300}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "sample", msg.Type)
	assert.Equal(t, float64(3), msg.Data["MAG"])
}
