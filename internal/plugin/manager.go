package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/ayusman/mudra/internal/pet"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// errNoManifest marks a subdirectory without a plugin.json; those are
// skipped silently since the plugin root may hold unrelated files.
var errNoManifest = errors.New("no plugin.json manifest")

// knownTriggers is the animation trigger vocabulary the state machine
// can emit. A manifest declaring anything outside it would never be
// dispatched to, so it is rejected at discovery.
var knownTriggers = func() map[string]bool {
	names := []string{pet.TriggerPlay, pet.TriggerSleep, pet.TriggerWalk}
	names = append(names, pet.IdleVariants...)
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}()

// Manager manages renderer plugin discovery and access.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover scans the plugin directory for plugin.json manifests. Each
// subdirectory is expected to be one plugin. Directories with a
// missing, unreadable, or invalid manifest are skipped; the scan only
// fails when the plugin directory itself cannot be read.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear existing plugins
	m.plugins = make(map[string]*Plugin)

	info, err := os.Stat(m.pluginDir)
	if os.IsNotExist(err) {
		return nil // No plugins directory, nothing to discover
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		p, err := loadPlugin(filepath.Join(m.pluginDir, entry.Name()))
		if err != nil {
			if !errors.Is(err, errNoManifest) {
				log.Printf("Skipping plugin %s: %v", entry.Name(), err)
			}
			continue
		}

		m.plugins[p.Manifest.Name] = p
	}

	return nil
}

// loadPlugin reads and validates the manifest of a single plugin
// directory.
func loadPlugin(pluginPath string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(pluginPath, "plugin.json"))
	if os.IsNotExist(err) {
		return nil, errNoManifest
	}
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if err := validateManifest(manifest); err != nil {
		return nil, err
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       pluginPath,
		Executable: filepath.Join(pluginPath, manifest.Executable),
	}, nil
}

// validateManifest checks the fields dispatch relies on: a name to
// register under, an executable to run, and trigger names the machine
// can actually emit. An empty trigger list subscribes the plugin to
// every trigger.
func validateManifest(m Manifest) error {
	if m.Name == "" {
		return errors.New("manifest missing name")
	}
	if m.Executable == "" {
		return errors.New("manifest missing executable")
	}
	for _, trig := range m.Triggers {
		if !knownTriggers[trig] {
			return fmt.Errorf("unknown trigger %q in manifest", trig)
		}
	}
	return nil
}

// Get returns a plugin by name.
// Returns ErrPluginNotFound if the plugin does not exist.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}

	return plugin, nil
}

// List returns a slice of all discovered plugins.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}

	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
