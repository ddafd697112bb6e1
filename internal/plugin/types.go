// Package plugin dispatches animation triggers to external renderer
// backends. The state machine stays decoupled from any concrete
// animation system: it emits trigger names, and this package forwards
// them to discovered renderer processes.
package plugin

import "encoding/json"

// Manifest describes a renderer plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Triggers     []string        `json:"triggers,omitempty"` // empty means all triggers
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents one animation trigger delivered to a plugin.
type Request struct {
	Trigger  string          `json:"trigger"`
	State    string          `json:"state"`
	Gesture  string          `json:"gesture,omitempty"`
	Position [3]float64      `json:"position,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered renderer plugin with its manifest and
// location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Accepts reports whether the plugin wants the given trigger. A plugin
// without a declared trigger list accepts everything.
func (p *Plugin) Accepts(trigger string) bool {
	if len(p.Manifest.Triggers) == 0 {
		return true
	}
	for _, t := range p.Manifest.Triggers {
		if t == trigger {
			return true
		}
	}
	return false
}
