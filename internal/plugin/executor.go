package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Executor delivers animation trigger requests to renderer plugins,
// one process invocation per trigger, bounded by a timeout.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Execute delivers one trigger request to a plugin and returns its
// response. The request is written to the plugin's stdin as JSON with
// the plugin's own directory as working directory, and stdout is parsed
// as a Response.
func (e *Executor) Execute(plugin *Plugin, req *Request) (*Response, error) {
	if !plugin.Accepts(req.Trigger) {
		return nil, fmt.Errorf("plugin %q does not accept trigger %q", plugin.Manifest.Name, req.Trigger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("trigger %q timed out after %dms in plugin %q", req.Trigger, e.timeoutMs, plugin.Manifest.Name)
	}

	if err != nil {
		if stderrStr := stderr.String(); stderrStr != "" {
			return nil, fmt.Errorf("trigger %q failed in plugin %q: %w, stderr: %s", req.Trigger, plugin.Manifest.Name, err, stderrStr)
		}
		return nil, fmt.Errorf("trigger %q failed in plugin %q: %w", req.Trigger, plugin.Manifest.Name, err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
