// Package gesture turns 21-point hand landmarks into stable discrete
// gesture labels for the mudra interaction pipeline.
package gesture

// Gesture is a discrete hand-pose label produced once per processed frame.
type Gesture string

const (
	// Fist means every finger is curled and the thumb is tucked in.
	Fist Gesture = "fist"
	// OpenPalm means all four fingers and the thumb are extended.
	OpenPalm Gesture = "open_palm"
	// Pointing means only the index finger is extended.
	Pointing Gesture = "pointing"
	// Peace means the index and middle fingers are extended.
	Peace Gesture = "peace"
	// Unknown is any pose that matches no rule, or an invalid hand.
	Unknown Gesture = "unknown"
	// NoHand is produced for frames without a detected hand.
	NoHand Gesture = "no_hand"
)
