package plugin

import (
	"log"
	"sync"
)

// Sink dispatches animation triggers to every discovered plugin that
// accepts them. Delivery is fire-and-forget: each plugin runs in its
// own goroutine and failures are logged, never propagated back to the
// caller.
type Sink struct {
	manager  *Manager
	executor *Executor

	mu       sync.Mutex
	state    string
	gesture  string
	position [3]float64
}

// NewSink creates a Sink that dispatches through the given manager and
// executor.
func NewSink(manager *Manager, executor *Executor) *Sink {
	return &Sink{
		manager:  manager,
		executor: executor,
	}
}

// SetContext records the state, gesture and world position that will be
// attached to subsequent trigger requests.
func (s *Sink) SetContext(state, gesture string, position [3]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.gesture = gesture
	s.position = position
}

// Trigger sends the named trigger to all plugins that accept it.
func (s *Sink) Trigger(name string) {
	s.mu.Lock()
	req := &Request{
		Trigger:  name,
		State:    s.state,
		Gesture:  s.gesture,
		Position: s.position,
	}
	s.mu.Unlock()

	for _, p := range s.manager.List() {
		if !p.Accepts(name) {
			continue
		}
		go func(p *Plugin) {
			resp, err := s.executor.Execute(p, req)
			if err != nil {
				log.Printf("Plugin %s failed for trigger %s: %v", p.Manifest.Name, name, err)
				return
			}
			if !resp.Success {
				log.Printf("Plugin %s rejected trigger %s: %s", p.Manifest.Name, name, resp.Error)
			}
		}(p)
	}
}
