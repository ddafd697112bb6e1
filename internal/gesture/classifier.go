package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Classifier maps hand landmarks to gesture labels and smooths the
// resulting stream. Callers only ever observe the smoothed label; the raw
// per-frame classification feeds the voting window as a side effect.
type Classifier struct {
	window *Smoother
}

// NewClassifier creates a Classifier with the default smoothing window.
func NewClassifier() *Classifier {
	return &Classifier{
		window: NewSmoother(DefaultWindowSize),
	}
}

// Classify labels the hand, records the raw label in the smoothing
// window, and returns the majority-vote label. An invalid hand (fewer
// than 21 landmarks) yields Unknown and leaves the window untouched.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Gesture {
	if !hand.Valid() {
		return Unknown
	}
	c.window.Append(classifyPose(hand))
	return c.window.Current()
}

// NoHand records a no-hand frame in the smoothing window and returns the
// resulting smoothed label, so hand-loss flows through the same voting
// as every other label.
func (c *Classifier) NoHand() Gesture {
	c.window.Append(NoHand)
	return c.window.Current()
}

// classifyPose evaluates the pose rules in order and returns the first
// match. The rules are not mutually exclusive by construction, so the
// order is load-bearing.
func classifyPose(hand *detector.HandLandmarks) Gesture {
	index := FingerStraight(hand, detector.IndexTip, detector.IndexMCP)
	middle := FingerStraight(hand, detector.MiddleTip, detector.MiddleMCP)
	ring := FingerStraight(hand, detector.RingTip, detector.RingMCP)
	pinky := FingerStraight(hand, detector.PinkyTip, detector.PinkyMCP)
	thumb := ThumbStraight(hand)

	switch {
	case !index && !middle && !ring && !pinky && !thumb:
		return Fist
	case index && middle && ring && pinky && thumb:
		return OpenPalm
	case index && !middle && !ring && !pinky:
		return Pointing
	case index && middle && !ring && !pinky:
		return Peace
	default:
		return Unknown
	}
}
