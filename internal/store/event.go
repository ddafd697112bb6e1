package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies an interaction event.
type EventKind string

const (
	// EventTransition records the state machine entering a new state.
	EventTransition EventKind = "transition"
	// EventTrigger records an animation trigger being emitted.
	EventTrigger EventKind = "trigger"
	// EventTarget records target acquisition or loss.
	EventTarget EventKind = "target"
)

// Event represents one entry in the interaction log.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      EventKind `json:"kind"`
	Gesture   string    `json:"gesture,omitempty"`
	State     string    `json:"state,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides persistence operations for events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts a new event, assigning its ID and timestamp.
func (r *EventRepository) Append(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, kind, gesture, state, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Kind), e.Gesture, e.State, e.Detail, e.CreatedAt,
	)
	return err
}

// Recent retrieves the most recent events across all sessions, newest
// first, capped at limit.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, kind, gesture, state, detail, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// BySession retrieves all events for one session in insertion order.
func (r *EventRepository) BySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, gesture, state, detail, created_at
		 FROM events WHERE session_id = ? ORDER BY created_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		e := &Event{}
		var kind string

		err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Gesture, &e.State, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.Kind = EventKind(kind)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
