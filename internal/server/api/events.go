// Package api provides HTTP API handlers for the mudra debug server.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// EventsHandler serves the interaction event log.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// GET /api/events?limit=N        — most recent events, newest first
// GET /api/events?session={id}   — all events for one session, oldest first
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		events []*store.Event
		err    error
	)

	if session := r.URL.Query().Get("session"); session != "" {
		events, err = h.store.Events().BySession(session)
	} else {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
		}
		events, err = h.store.Events().Recent(limit)
	}

	if err != nil {
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}

	if events == nil {
		events = []*store.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"events": events,
	})
}
