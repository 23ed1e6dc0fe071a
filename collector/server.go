// Package collector receives the telemetry documents that modem clients post.
package collector

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"i4.energy/across/wifigw/monitor"
)

// MaxDocumentSize bounds a posted document. The modem never sends more
// than one 512-byte request.
const MaxDocumentSize = 4096

// Server handles incoming HTTP requests from modem clients and viewers.
type Server struct {
	Logger *slog.Logger
	// Hub receives every accepted document. Optional.
	Hub *monitor.Hub
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /data", s.handleData)
	if s.Hub != nil {
		mux.Handle("GET /ws", s.Hub.Handler())
	}
	mux.ServeHTTP(w, r)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleRoot answers connection tests.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("connection works\n"))
}

// handleData accepts one JSON object per request.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(doc) == 0 {
		s.sendError(w, "empty document", http.StatusBadRequest)
		return
	}

	s.logger().Info("Received data", "remote", r.RemoteAddr, "data", doc)
	if s.Hub != nil {
		s.Hub.Broadcast(monitor.Message{Type: "sample", Data: doc})
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("data received\n"))
}
