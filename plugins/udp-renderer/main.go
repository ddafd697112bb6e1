// Package main provides a UDP renderer plugin.
// It forwards animation triggers as JSON datagrams to a renderer
// process listening on a UDP port, typically a game engine or
// desktop overlay embedding the pet.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
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
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RendererConfig defines where the renderer listens.
type RendererConfig struct {
	Address string `json:"address"`
}

// message is the datagram sent to the renderer.
type message struct {
	Trigger  string     `json:"trigger"`
	State    string     `json:"state"`
	Gesture  string     `json:"gesture,omitempty"`
	Position [3]float64 `json:"position"`
}

const defaultAddress = "127.0.0.1:9900"

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Trigger == "" {
		writeErrorResponse("trigger is required")
		return
	}

	address := defaultAddress
	if len(req.Config) > 0 {
		var cfg RendererConfig
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
		if cfg.Address != "" {
			address = cfg.Address
		}
	}

	if err := send(address, &req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to send trigger: %v", err))
		return
	}

	writeSuccessResponse()
}

// send delivers the trigger to the renderer as a single datagram.
func send(address string, req *Request) error {
	conn, err := net.Dial("udp", address)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", address, err)
	}
	defer conn.Close()

	payload, err := json.Marshal(message{
		Trigger:  req.Trigger,
		State:    req.State,
		Gesture:  req.Gesture,
		Position: req.Position,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write datagram: %w", err)
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
