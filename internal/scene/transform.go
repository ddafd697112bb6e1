// Package scene provides the world-space geometry for the mudra pipeline:
// the observer camera, screen-to-world unprojection, and the transform of
// the tracked pet target.
package scene

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a position and orientation in world space. The forward
// direction of an identity rotation is +Z.
type Transform struct {
	Position r3.Vec
	Rotation r3.Rotation
}

// IdentityRotation returns the no-op rotation.
func IdentityRotation() r3.Rotation {
	return r3.Rotation(quat.Number{Real: 1})
}

// Forward returns the transform's facing direction in world space.
func (t Transform) Forward() r3.Vec {
	return t.Rotation.Rotate(r3.Vec{Z: 1})
}

// LookYaw returns the rotation about the world Y axis that faces the
// given horizontal direction. The vertical component of dir is ignored.
func LookYaw(dir r3.Vec) r3.Rotation {
	yaw := math.Atan2(dir.X, dir.Z)
	return r3.NewRotation(yaw, r3.Vec{Y: 1})
}

// Slerp spherically interpolates between two rotations. t is clamped to
// [0,1]; t=0 yields a, t=1 yields b, always along the shorter arc.
func Slerp(a, b r3.Rotation, t float64) r3.Rotation {
	t = math.Max(0, math.Min(1, t))

	qa := quat.Number(a)
	qb := quat.Number(b)

	dot := qa.Real*qb.Real + qa.Imag*qb.Imag + qa.Jmag*qb.Jmag + qa.Kmag*qb.Kmag
	if dot < 0 {
		// Take the shorter arc
		qb = quat.Number{Real: -qb.Real, Imag: -qb.Imag, Jmag: -qb.Jmag, Kmag: -qb.Kmag}
		dot = -dot
	}

	// Nearly parallel rotations: fall back to normalized lerp to avoid
	// dividing by a vanishing sine.
	if dot > 0.9995 {
		return normalize(quat.Number{
			Real: qa.Real + t*(qb.Real-qa.Real),
			Imag: qa.Imag + t*(qb.Imag-qa.Imag),
			Jmag: qa.Jmag + t*(qb.Jmag-qa.Jmag),
			Kmag: qa.Kmag + t*(qb.Kmag-qa.Kmag),
		})
	}

	theta0 := math.Acos(dot)
	sin0 := math.Sin(theta0)
	s0 := math.Sin((1-t)*theta0) / sin0
	s1 := math.Sin(t*theta0) / sin0

	return r3.Rotation(quat.Number{
		Real: s0*qa.Real + s1*qb.Real,
		Imag: s0*qa.Imag + s1*qb.Imag,
		Jmag: s0*qa.Jmag + s1*qb.Jmag,
		Kmag: s0*qa.Kmag + s1*qb.Kmag,
	})
}

func normalize(q quat.Number) r3.Rotation {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n < 1e-12 {
		return IdentityRotation()
	}
	return r3.Rotation(quat.Number{
		Real: q.Real / n,
		Imag: q.Imag / n,
		Jmag: q.Jmag / n,
		Kmag: q.Kmag / n,
	})
}
