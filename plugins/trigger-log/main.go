// Package main provides a trigger log plugin.
// It appends each animation trigger to a plain text log file, which is
// useful when debugging renderer integration without a renderer
// attached.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Request represents the input from the plugin executor.
type Request struct {
	Trigger  string          `json:"trigger"`
	State    string          `json:"state"`
	Gesture  string          `json:"gesture"`
	Position [3]float64      `json:"position"`
	Config   json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// LogConfig defines where the log file lives.
type LogConfig struct {
	Path string `json:"path"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Trigger == "" {
		writeResponse(Response{Success: false, Error: "trigger is required"})
		return
	}

	path, err := logPath(req.Config)
	if err != nil {
		writeResponse(Response{Success: false, Error: err.Error()})
		return
	}

	if err := appendLine(path, &req); err != nil {
		writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to write log: %v", err)})
		return
	}

	writeResponse(Response{Success: true})
}

// logPath resolves the log file location, defaulting to
// ~/.mudra/triggers.log.
func logPath(config json.RawMessage) (string, error) {
	if len(config) > 0 {
		var cfg LogConfig
		if err := json.Unmarshal(config, &cfg); err != nil {
			return "", fmt.Errorf("failed to parse config: %w", err)
		}
		if cfg.Path != "" {
			return cfg.Path, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mudra", "triggers.log"), nil
}

func appendLine(path string, req *Request) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s trigger=%s state=%s gesture=%s position=(%.2f, %.2f, %.2f)\n",
		time.Now().Format(time.RFC3339), req.Trigger, req.State, req.Gesture,
		req.Position[0], req.Position[1], req.Position[2])
	_, err = f.WriteString(line)
	return err
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
