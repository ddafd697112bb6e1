// Package app wires the mudra pipeline together: camera frames pass
// through the motion gate and hand detector into the gesture
// classifier, the target mapper, and the pet state machine, which
// drives animation triggers out to renderer plugins.
package app

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pet"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no hand is present.
	IdleFPS = 5
	// ActiveFPS is the frame rate while a hand is being tracked.
	ActiveFPS = 15
	// HandLostTimeoutMs is how long after the last detected hand the
	// pipeline drops back to the idle frame rate.
	HandLostTimeoutMs = 2000
	// MinDetectIntervalMs is the floor between detection submissions,
	// independent of the capture rate.
	MinDetectIntervalMs = 66
	// PluginTimeoutMs bounds each renderer plugin invocation.
	PluginTimeoutMs = 5000
	// DefaultFOV is the vertical field of view, in degrees, assumed for
	// the observer camera when unprojecting landmarks.
	DefaultFOV = 60.0
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
	FOV          float64
	Mapper       scene.MapperConfig
	Machine      pet.Config
}

// Status is a point-in-time snapshot of the pipeline, served over the
// debug API and shown in the tray. Advisory only.
type Status struct {
	Enabled          bool       `json:"enabled"`
	TargetAcquired   bool       `json:"target_acquired"`
	Gesture          string     `json:"gesture"`
	State            string     `json:"state"`
	IdleVariant      string     `json:"idle_variant,omitempty"`
	Position         [3]float64 `json:"position"`
	DetectionPending bool       `json:"detection_pending"`
	DroppedNoTarget  uint64     `json:"dropped_no_target"`
}

// String renders the snapshot as a single human-readable line.
func (s Status) String() string {
	state := s.State
	if s.IdleVariant != "" {
		state += "/" + s.IdleVariant
	}
	return fmt.Sprintf("gesture=%s state=%s position=(%.2f, %.2f, %.2f)",
		s.Gesture, state, s.Position[0], s.Position[1], s.Position[2])
}

// detectionResult carries one detector completion into the consumer
// goroutine.
type detectionResult struct {
	hands []detector.HandLandmarks
	at    time.Time
}

// App is the main application that orchestrates hand tracking and the
// pet's animation state.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier
	view       *scene.Camera
	mapper     *scene.Mapper
	machine    *pet.Machine
	pluginMgr  *plugin.Manager
	sink       *plugin.Sink

	enabled bool
	stopCh  chan struct{}

	// pending enforces the single-in-flight detection policy: a new
	// frame is skipped, not queued, while a detection is running.
	pending  atomic.Bool
	resultCh chan detectionResult

	// mu guards the tracked-target state below. The state machine and
	// gesture window are mutated only by the consumer goroutine, which
	// holds mu while applying a detection result.
	mu              sync.RWMutex
	target          *scene.Transform
	sessionID       string
	lastGesture     gesture.Gesture
	lastPosition    r3.Vec
	lastHandAt      time.Time
	droppedNoTarget uint64
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // Default threshold: 1% pixel change
	}
	if config.FOV <= 0 {
		config.FOV = DefaultFOV
	}
	if config.Mapper == (scene.MapperConfig{}) {
		config.Mapper = scene.DefaultMapperConfig()
	}
	if config.Machine == (pet.Config{}) {
		config.Machine = pet.DefaultConfig()
	}

	camera := capture.NewCamera(config.CameraID)
	width, height := camera.Dimensions()

	pluginMgr := plugin.NewManager(config.PluginDir)

	a := &App{
		config:     config,
		camera:     camera,
		motion:     capture.NewMotionDetector(config.MotionThresh),
		classifier: gesture.NewClassifier(),
		view:       scene.NewCamera(float64(width), float64(height), config.FOV),
		mapper:     scene.NewMapper(config.Mapper),
		pluginMgr:  pluginMgr,
		sink:       plugin.NewSink(pluginMgr, plugin.NewExecutor(PluginTimeoutMs)),
		resultCh:   make(chan detectionResult, 1),
	}
	a.machine = pet.NewMachine(config.Machine, a, nil)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables hand tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// DiscoverPlugins scans the plugin directory and loads available
// renderer plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// TargetAcquired installs the tracked target the pet is attached to,
// resetting the state machine and opening a new session. Called by the
// image-tracking collaborator (or at startup for a fixed overlay).
func (a *App) TargetAcquired(t *scene.Transform) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.target = t
	a.machine.Reset()
	a.lastGesture = ""
	a.lastPosition = r3.Vec{}

	if a.config.Store != nil {
		session, err := a.config.Store.Sessions().Start()
		if err != nil {
			log.Printf("Failed to start session: %v", err)
		} else {
			a.sessionID = session.ID
		}
	}
	a.recordEvent(store.EventTarget, "", "", "acquired")
	log.Println("Target acquired")
}

// TargetLost drops the tracked target. Detection results arriving
// before the next acquisition are dropped and counted.
func (a *App) TargetLost() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.targetLostLocked()
}

func (a *App) targetLostLocked() {
	if a.target == nil {
		return
	}

	a.recordEvent(store.EventTarget, "", "", "lost")
	a.endSessionLocked()
	a.target = nil
	a.machine.Reset()
	log.Println("Target lost")
}

func (a *App) endSessionLocked() {
	if a.config.Store == nil || a.sessionID == "" {
		return
	}
	if err := a.config.Store.Sessions().End(a.sessionID); err != nil {
		log.Printf("Failed to end session: %v", err)
	}
	a.sessionID = ""
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Start paced for an empty scene
	a.camera.SetFPS(IdleFPS)

	stopCh := make(chan struct{})
	a.stopCh = stopCh
	go a.runCapture(stopCh)
	go a.runConsumer(stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline synchronously and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the goroutines to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	a.targetLostLocked()

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// Status returns a snapshot of the pipeline state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Status{
		Enabled:          a.enabled,
		TargetAcquired:   a.target != nil,
		Gesture:          string(a.lastGesture),
		State:            string(a.machine.State()),
		IdleVariant:      a.machine.IdleVariant(),
		Position:         [3]float64{a.lastPosition.X, a.lastPosition.Y, a.lastPosition.Z},
		DetectionPending: a.pending.Load(),
		DroppedNoTarget:  a.droppedNoTarget,
	}
}

// Trigger implements pet.TriggerSink. The state machine calls it from
// the consumer goroutine while the state lock is held, so fields are
// read directly.
func (a *App) Trigger(name string) {
	a.sink.SetContext(string(a.machine.State()), string(a.lastGesture),
		[3]float64{a.lastPosition.X, a.lastPosition.Y, a.lastPosition.Z})
	a.sink.Trigger(name)
	a.recordEvent(store.EventTrigger, string(a.lastGesture), string(a.machine.State()), name)
}

// recordEvent appends to the interaction log. Callers hold a.mu.
func (a *App) recordEvent(kind store.EventKind, g, state, detail string) {
	if a.config.Store == nil || a.sessionID == "" {
		return
	}
	err := a.config.Store.Events().Append(&store.Event{
		SessionID: a.sessionID,
		Kind:      kind,
		Gesture:   g,
		State:     state,
		Detail:    detail,
	})
	if err != nil {
		log.Printf("Failed to record %s event: %v", kind, err)
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
