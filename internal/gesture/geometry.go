package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Straightness thresholds.
const (
	// maxStraightAngleDeg is the largest angle (degrees) between the
	// base→tip and wrist→base directions for a finger to count as
	// straight. A curled finger folds back on itself and blows well
	// past this.
	maxStraightAngleDeg = 35.0

	// thumbTuckDistance is the normalized distance between the thumb tip
	// and the index MCP below which the thumb counts as tucked in. The
	// thumb's opposable joint geometry has no usable base/tip alignment,
	// so proximity to the index base stands in for curl.
	thumbTuckDistance = 0.05
)

// FingerStraight reports whether the finger with the given tip and base
// (MCP) landmark indices is extended. It compares the direction of the
// finger (tip minus base) against the direction from wrist to base.
func FingerStraight(hand *detector.HandLandmarks, tip, base int) bool {
	if !hand.Valid() {
		return false
	}

	wrist := hand.Points[detector.Wrist]
	b := hand.Points[base]
	t := hand.Points[tip]

	finger := [3]float64{t.X - b.X, t.Y - b.Y, t.Z - b.Z}
	palm := [3]float64{b.X - wrist.X, b.Y - wrist.Y, b.Z - wrist.Z}

	return angleBetween(finger, palm) < maxStraightAngleDeg
}

// ThumbStraight reports whether the thumb is extended away from the palm.
func ThumbStraight(hand *detector.HandLandmarks) bool {
	if !hand.Valid() {
		return false
	}
	d := detector.Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexMCP])
	return d > thumbTuckDistance
}

// angleBetween returns the angle in degrees between two 3D vectors.
// Degenerate (near-zero) vectors yield 180 so they never read as straight.
func angleBetween(a, b [3]float64) float64 {
	na := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	nb := math.Sqrt(b[0]*b[0] + b[1]*b[1] + b[2]*b[2])
	if na < 1e-9 || nb < 1e-9 {
		return 180
	}

	dot := (a[0]*b[0] + a[1]*b[1] + a[2]*b[2]) / (na * nb)
	dot = math.Max(-1, math.Min(1, dot))

	return math.Acos(dot) * 180 / math.Pi
}
