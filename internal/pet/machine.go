// Package pet drives the virtual pet's animation state from the smoothed
// gesture stream: debounced transitions with per-transition hold times,
// an idle liveness cycle, and the facing update toward the user's finger.
package pet

import (
	"math/rand"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// State is the pet's current animation state.
type State string

const (
	// StateNone is the unset/neutral state, entered on reset and when a
	// walk is cleared by losing the hand.
	StateNone State = "none"
	// StateIdle plays one of the idle variant animations.
	StateIdle State = "idle"
	// StatePlay is entered on a sustained open palm.
	StatePlay State = "play"
	// StateSleep is entered on sustained pointing.
	StateSleep State = "sleep"
	// StateWalk is entered immediately on peace or fist.
	StateWalk State = "walk"
)

// Animation trigger names understood by the renderer.
const (
	TriggerPlay  = "Play"
	TriggerSleep = "Sleep"
	TriggerWalk  = "Walk"
)

// IdleVariants is the fixed set of idle animation triggers the liveness
// cycle picks from.
var IdleVariants = []string{"Idle_A", "Idle_B", "Sit", "Stretch"}

// TriggerSink receives fire-and-forget animation triggers. Each state
// transition emits exactly one trigger named after the destination.
type TriggerSink interface {
	Trigger(name string)
}

// Config holds the state machine's timing parameters.
type Config struct {
	// HoldThreshold is how long a gesture must be continuously observed
	// before it may drive a Play or Sleep transition. Walk is not gated.
	HoldThreshold time.Duration
	// IdleInterval is how long the pet stays on one idle variant before
	// the liveness cycle picks another.
	IdleInterval time.Duration
	// TurnRate is the facing interpolation rate in fraction-per-second;
	// the per-frame factor is TurnRate times the frame duration.
	TurnRate float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		HoldThreshold: 300 * time.Millisecond,
		IdleInterval:  120 * time.Second,
		TurnRate:      5.0,
	}
}

// Machine is the interaction state machine. It is mutated only by the
// single goroutine that consumes detection results.
type Machine struct {
	config Config
	sink   TriggerSink
	rng    *rand.Rand

	state       State
	idleVariant string

	lastGesture     gesture.Gesture
	holdTime        time.Duration
	sinceIdleSwitch time.Duration
}

// NewMachine creates a Machine. sink may be nil, in which case triggers
// are dropped. rng may be nil to use a time-seeded source.
func NewMachine(config Config, sink TriggerSink, rng *rand.Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Machine{
		config: config,
		sink:   sink,
		rng:    rng,
		state:  StateNone,
	}
}

// Update advances the machine by one processed frame carrying the
// smoothed gesture and the elapsed frame duration.
func (m *Machine) Update(g gesture.Gesture, dt time.Duration) {
	m.sinceIdleSwitch += dt

	// Hold-time bookkeeping: sustained observation of the same gesture
	// accumulates; any change resets.
	if g == m.lastGesture {
		m.holdTime += dt
	} else {
		m.holdTime = 0
	}
	m.lastGesture = g

	switch {
	case g == gesture.NoHand || g == gesture.Unknown:
		// Losing the hand clears a walk without an animation trigger.
		if m.state == StateWalk {
			m.state = StateNone
		}
		// Liveness: rotate idle variants so the pet never freezes.
		if m.sinceIdleSwitch >= m.config.IdleInterval {
			variant := IdleVariants[m.rng.Intn(len(IdleVariants))]
			m.state = StateIdle
			m.idleVariant = variant
			m.fire(variant)
			m.sinceIdleSwitch = 0
		}

	case g == gesture.OpenPalm:
		if m.holdTime >= m.config.HoldThreshold && m.state != StatePlay {
			m.state = StatePlay
			m.holdTime = 0
			m.fire(TriggerPlay)
		}

	case g == gesture.Pointing:
		if m.holdTime >= m.config.HoldThreshold && m.state != StateSleep {
			m.state = StateSleep
			m.holdTime = 0
			m.fire(TriggerSleep)
		}

	case g == gesture.Peace || g == gesture.Fist:
		// Walk fires immediately and cancels any pending Play/Sleep
		// hold accumulation.
		if m.state != StateWalk {
			m.state = StateWalk
			m.holdTime = 0
			m.fire(TriggerWalk)
		}
	}
}

// Reset returns the machine to its initial state. Called when the
// tracked target is lost.
func (m *Machine) Reset() {
	m.state = StateNone
	m.idleVariant = ""
	m.lastGesture = ""
	m.holdTime = 0
	m.sinceIdleSwitch = 0
}

// State returns the current animation state.
func (m *Machine) State() State {
	return m.state
}

// IdleVariant returns the active idle variant name, or "" when the pet
// is not idling.
func (m *Machine) IdleVariant() string {
	if m.state != StateIdle {
		return ""
	}
	return m.idleVariant
}

// HoldTime returns how long the current gesture has been continuously
// observed.
func (m *Machine) HoldTime() time.Duration {
	return m.holdTime
}

func (m *Machine) fire(name string) {
	if m.sink != nil {
		m.sink.Trigger(name)
	}
}
