package app

import (
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/pet"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// newTestApp creates an App backed by a temporary store and a mock
// detector. The pipeline goroutines are not started; tests drive apply
// directly.
func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	a := New(Config{
		Store:     s,
		PluginDir: tmpDir,
	})
	a.SetDetector(detector.NewMockDetector())
	return a, s
}

func newTarget() *scene.Transform {
	return &scene.Transform{Rotation: scene.IdentityRotation()}
}

// feed applies n detection results carrying the given hand, each dt
// apart.
func feed(a *App, hand detector.HandLandmarks, n int, dt time.Duration) {
	at := time.Now()
	for i := 0; i < n; i++ {
		at = at.Add(dt)
		a.apply(detectionResult{hands: []detector.HandLandmarks{hand}, at: at}, dt)
	}
}

func TestApp_OpenPalmHeld_EntersPlay(t *testing.T) {
	a, s := newTestApp(t)
	a.TargetAcquired(newTarget())

	feed(a, detector.OpenPalmLandmarks(), 5, 100*time.Millisecond)

	status := a.Status()
	if status.State != string(pet.StatePlay) {
		t.Fatalf("State = %q, want %q", status.State, pet.StatePlay)
	}
	if status.Gesture != "open_palm" {
		t.Errorf("Gesture = %q, want open_palm", status.Gesture)
	}
	if status.Position == ([3]float64{}) {
		t.Error("expected a mapped hand position, got zero")
	}

	// One transition and one trigger event must be on record.
	events, err := s.Events().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	var transitions, triggers int
	for _, e := range events {
		switch e.Kind {
		case store.EventTransition:
			transitions++
		case store.EventTrigger:
			if e.Detail != pet.TriggerPlay {
				t.Errorf("trigger event detail = %q, want %q", e.Detail, pet.TriggerPlay)
			}
			triggers++
		}
	}
	if transitions != 1 || triggers != 1 {
		t.Errorf("got %d transitions and %d triggers, want 1 and 1", transitions, triggers)
	}
}

func TestApp_PeaceSign_WalksImmediately(t *testing.T) {
	a, _ := newTestApp(t)
	a.TargetAcquired(newTarget())

	feed(a, detector.PeaceLandmarks(), 1, 100*time.Millisecond)

	if status := a.Status(); status.State != string(pet.StateWalk) {
		t.Fatalf("State = %q, want %q", status.State, pet.StateWalk)
	}
}

func TestApp_ResultBeforeTarget_IsDropped(t *testing.T) {
	a, _ := newTestApp(t)

	feed(a, detector.OpenPalmLandmarks(), 3, 100*time.Millisecond)

	status := a.Status()
	if status.DroppedNoTarget != 3 {
		t.Errorf("DroppedNoTarget = %d, want 3", status.DroppedNoTarget)
	}
	if status.Gesture != "" {
		t.Errorf("Gesture = %q, want empty before a target exists", status.Gesture)
	}
	if status.State != string(pet.StateNone) {
		t.Errorf("State = %q, want %q", status.State, pet.StateNone)
	}
}

func TestApp_EmptyFrames_ClearWalk(t *testing.T) {
	a, _ := newTestApp(t)
	a.TargetAcquired(newTarget())

	feed(a, detector.FistLandmarks(), 1, 100*time.Millisecond)
	if status := a.Status(); status.State != string(pet.StateWalk) {
		t.Fatalf("State = %q, want %q", status.State, pet.StateWalk)
	}

	// Frames without a hand feed through the smoother; after the window
	// flips to no_hand the walk clears without a trigger.
	at := time.Now()
	for i := 0; i < 5; i++ {
		at = at.Add(100 * time.Millisecond)
		a.apply(detectionResult{at: at}, 100*time.Millisecond)
	}

	if status := a.Status(); status.State != string(pet.StateNone) {
		t.Errorf("State = %q, want %q after hand lost", status.State, pet.StateNone)
	}
}

func TestApp_QuietStretch_AdvancesIdleClock(t *testing.T) {
	a, s := newTestApp(t)
	a.TargetAcquired(newTarget())

	// No-hand results with large gaps stand in for a scene where the
	// motion gate suppressed every frame in between.
	at := time.Now()
	for i := 0; i < 4; i++ {
		at = at.Add(30 * time.Second)
		a.apply(detectionResult{at: at}, 30*time.Second)
	}

	status := a.Status()
	if status.State != string(pet.StateIdle) {
		t.Fatalf("State = %q, want %q after the idle interval elapsed", status.State, pet.StateIdle)
	}
	if status.IdleVariant == "" {
		t.Error("expected an idle variant to be chosen")
	}

	events, err := s.Events().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	var triggers []string
	for _, e := range events {
		if e.Kind == store.EventTrigger {
			triggers = append(triggers, e.Detail)
		}
	}
	if len(triggers) != 1 {
		t.Fatalf("got %d trigger events %v, want exactly 1", len(triggers), triggers)
	}
	var known bool
	for _, v := range pet.IdleVariants {
		if triggers[0] == v {
			known = true
		}
	}
	if !known {
		t.Errorf("trigger detail = %q, want one of %v", triggers[0], pet.IdleVariants)
	}
}

func TestApp_StaticScene_ConsumerKeepsIdleAlive(t *testing.T) {
	a, _ := newTestApp(t)
	a.config.Machine.IdleInterval = 500 * time.Millisecond
	a.machine = pet.NewMachine(a.config.Machine, a, nil)
	a.TargetAcquired(newTarget())

	// Nothing is ever sent on the result channel; only the consumer's
	// own liveness tick can move the machine.
	stopCh := make(chan struct{})
	go a.runConsumer(stopCh)
	defer close(stopCh)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if status := a.Status(); status.State == string(pet.StateIdle) {
			if status.IdleVariant == "" {
				t.Error("expected an idle variant to be chosen")
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("consumer never entered idle with an empty result channel")
}

func TestApp_FacingTurnsTowardHand(t *testing.T) {
	a, _ := newTestApp(t)
	target := newTarget()
	a.TargetAcquired(target)

	before := target.Forward()
	feed(a, detector.PointingLandmarks(), 3, 100*time.Millisecond)
	after := target.Forward()

	if before == after {
		t.Error("expected target facing to change while a hand is present")
	}
}

func TestApp_TargetLifecycle_Sessions(t *testing.T) {
	a, s := newTestApp(t)

	a.TargetAcquired(newTarget())
	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].EndedAt != nil {
		t.Error("session should still be open")
	}

	a.TargetLost()
	sessions, err = s.Sessions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if sessions[0].EndedAt == nil {
		t.Error("session should be ended after target loss")
	}

	events, err := s.Events().BySession(sessions[0].ID)
	if err != nil {
		t.Fatalf("BySession() error = %v", err)
	}
	var details []string
	for _, e := range events {
		if e.Kind == store.EventTarget {
			details = append(details, e.Detail)
		}
	}
	if len(details) != 2 || details[0] != "acquired" || details[1] != "lost" {
		t.Errorf("target events = %v, want [acquired lost]", details)
	}
}

func TestApp_TargetLost_ResetsMachine(t *testing.T) {
	a, _ := newTestApp(t)
	a.TargetAcquired(newTarget())

	feed(a, detector.PeaceLandmarks(), 1, 100*time.Millisecond)
	a.TargetLost()

	if status := a.Status(); status.State != string(pet.StateNone) {
		t.Errorf("State = %q, want %q after target loss", status.State, pet.StateNone)
	}
	if status := a.Status(); status.TargetAcquired {
		t.Error("TargetAcquired should be false after loss")
	}
}

func TestApp_SetEnabled(t *testing.T) {
	a, _ := newTestApp(t)

	if a.IsEnabled() {
		t.Error("tracking should start disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("tracking should be enabled")
	}
}

func TestStatus_String(t *testing.T) {
	s := Status{
		Gesture:     "open_palm",
		State:       "idle",
		IdleVariant: "Sit",
		Position:    [3]float64{0.5, 1.25, 1.5},
	}

	want := "gesture=open_palm state=idle/Sit position=(0.50, 1.25, 1.50)"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestApp_MappedPositionNearTargetDepth(t *testing.T) {
	a, _ := newTestApp(t)
	target := newTarget()
	target.Position = r3.Vec{Z: 1.0}
	a.TargetAcquired(target)

	feed(a, detector.PointingLandmarks(), 1, 100*time.Millisecond)

	status := a.Status()
	// The reference distance anchors the mapped depth near the target's
	// distance from the observer at the origin.
	if status.Position[2] < 0.5 || status.Position[2] > 2.0 {
		t.Errorf("mapped depth = %v, want near the target's depth plane", status.Position[2])
	}
}
