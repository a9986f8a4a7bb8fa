package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// keepAliveInterval is how often an idle stream gets a comment line so proxies keep it open.
var keepAliveInterval = 15 * time.Second

// AnalysisStreamHandler relays the worker log stream as server-sent events. Each
// message is sent with its kind as the event name and its sequence number as id.
func (s *Server) AnalysisStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		messages, cancel := s.Stream.Subscribe(0)
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				log.Debug("Log stream client disconnected")
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case msg, ok := <-messages:
				if !ok {
					log.Debug("Log stream subscription closed")
					return
				}
				data, err := json.Marshal(msg)
				if err != nil {
					log.Error("Failed to encode stream message", "error", err)
					continue
				}
				fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", msg.Seq, msg.Kind, data)
				flusher.Flush()
			}
		}
	}
}
