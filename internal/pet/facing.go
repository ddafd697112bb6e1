package pet

import (
	"time"

	"github.com/ayusman/mudra/internal/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateDirSq is the squared-length floor below which a facing
// direction is treated as degenerate and the frame's rotation update is
// skipped.
const degenerateDirSq = 1e-6

// FaceToward turns the transform's orientation toward the horizontal
// direction of point, frame-rate independently: the interpolation factor
// is turnRate scaled by the frame duration. The vertical component of
// the direction is ignored so the pet never pitches.
//
// Returns false without touching the transform when the direction is
// degenerate (point directly above or on the target).
func FaceToward(tr *scene.Transform, point r3.Vec, turnRate float64, dt time.Duration) bool {
	dir := r3.Sub(point, tr.Position)
	dir.Y = 0

	if r3.Norm2(dir) <= degenerateDirSq {
		return false
	}

	step := turnRate * dt.Seconds()
	tr.Rotation = scene.Slerp(tr.Rotation, scene.LookYaw(dir), step)
	return true
}
