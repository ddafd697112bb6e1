package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pet"
	"github.com/ayusman/mudra/internal/store"
)

// runCapture is the frame acquisition loop. It paces the camera between
// idle and active rates based on hand presence and submits frames for
// detection under the backpressure policy:
//
//  1. Start at the idle rate with the motion gate engaged.
//  2. While no hand has been seen recently, a frame reaches the
//     detector only when the motion gate reports pixel change.
//  3. While a hand is tracked, capture at the active rate and submit
//     every eligible frame.
//  4. Only one detection may be in flight; a frame arriving while one
//     is pending is skipped, never queued.
//  5. Submissions are additionally rate-limited to a fixed minimum
//     interval, so a slow detector cannot accumulate a frame backlog.
func (a *App) runCapture(stopCh chan struct{}) {
	active := false
	frameInterval := time.Second / time.Duration(IdleFPS)
	var lastSubmit time.Time

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if tracking is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Hand presence, not raw motion, decides the capture rate:
			// the consumer records when it last saw a valid hand.
			handRecent := time.Since(a.lastHandSeen()) < time.Duration(HandLostTimeoutMs)*time.Millisecond
			if handRecent != active {
				active = handRecent
				if active {
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					log.Println("Hand tracked, switched to active rate")
				} else {
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					log.Println("Hand lost, switched to idle rate")
				}
				ticker.Reset(frameInterval)
			}

			// Motion gate: while idle, skip detection entirely for
			// static frames. Always fed so its reference frame stays
			// current.
			motion, _ := a.motion.Detect(frame)
			if !active && !motion {
				frame.Close()
				continue
			}

			// Backpressure: skip, never queue.
			if a.pending.Load() {
				frame.Close()
				continue
			}
			if time.Since(lastSubmit) < time.Duration(MinDetectIntervalMs)*time.Millisecond {
				frame.Close()
				continue
			}

			lastSubmit = time.Now()
			a.pending.Store(true)
			go a.detect(frame, stopCh)
		}
	}
}

// detect runs one detector invocation off the consumer goroutine and
// hands the result over the channel. Shared state is never touched
// here.
func (a *App) detect(frame *gocv.Mat, stopCh chan struct{}) {
	defer a.pending.Store(false)
	defer frame.Close()

	hands, err := a.Detector().Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	select {
	case a.resultCh <- detectionResult{hands: hands, at: time.Now()}:
	case <-stopCh:
	}
}

// livenessInterval is how often the consumer advances the machine when
// no detection results are arriving. The motion gate keeps static
// scenes away from the detector entirely, so without this tick the
// idle cycle would stall whenever nothing moves in front of the
// camera.
const livenessInterval = time.Second

// runConsumer is the single goroutine that owns the gesture window, the
// state machine, and the target transform. Detection results are
// applied strictly in arrival order; quiet stretches are bridged with
// synthetic no-hand results so idle time keeps accumulating.
func (a *App) runConsumer(stopCh chan struct{}) {
	last := time.Now()

	ticker := time.NewTicker(livenessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case res := <-a.resultCh:
			dt := res.at.Sub(last)
			last = res.at
			if dt < 0 {
				dt = 0
			}
			a.apply(res, dt)
		case now := <-ticker.C:
			dt := now.Sub(last)
			if dt < livenessInterval {
				// Real results are flowing; nothing to bridge.
				continue
			}
			last = now
			a.apply(detectionResult{at: now}, dt)
		}
	}
}

// apply advances the pipeline by one detection result.
func (a *App) apply(res detectionResult, dt time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Results arriving before a target exists carry no meaning for the
	// state machine; drop them and surface the count.
	if a.target == nil {
		a.droppedNoTarget++
		return
	}

	var g gesture.Gesture
	if len(res.hands) == 0 {
		g = a.classifier.NoHand()
	} else {
		g = a.classifier.Classify(&res.hands[0])
	}

	// Mapping and facing run on every frame with a usable hand,
	// independent of gesture-driven transitions.
	if len(res.hands) > 0 && res.hands[0].Valid() {
		a.lastHandAt = res.at
		lm := res.hands[0].Points[detector.IndexTip]
		pos := a.mapper.Map(lm, a.view, a.target.Position)
		a.lastPosition = pos
		pet.FaceToward(a.target, pos, a.config.Machine.TurnRate, dt)
	}

	prev := a.machine.State()
	a.lastGesture = g
	a.machine.Update(g, dt)

	if state := a.machine.State(); state != prev {
		a.recordEvent(store.EventTransition, string(g), string(state), a.machine.IdleVariant())
	}
}

// lastHandSeen returns when the consumer last applied a frame with a
// valid hand.
func (a *App) lastHandSeen() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastHandAt
}
