package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera models the observer: a world transform plus a perspective
// projection over a pixel viewport. Screen coordinates have their origin
// at the bottom-left with y growing upward.
type Camera struct {
	Transform Transform
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Width and Height are the viewport dimensions in pixels.
	Width  float64
	Height float64
}

// NewCamera creates a camera at the origin looking down +Z.
func NewCamera(width, height, fov float64) *Camera {
	return &Camera{
		Transform: Transform{Rotation: IdentityRotation()},
		FOV:       fov,
		Width:     width,
		Height:    height,
	}
}

// ScreenToWorld unprojects a screen point at the given forward distance
// into world space. depth is measured along the camera's viewing
// direction in world units, not along the ray.
func (c *Camera) ScreenToWorld(x, y, depth float64) r3.Vec {
	ndcX := 2*x/c.Width - 1
	ndcY := 2*y/c.Height - 1

	tanV := math.Tan(c.FOV / 2 * math.Pi / 180)
	tanH := tanV * c.Width / c.Height

	local := r3.Vec{
		X: ndcX * tanH * depth,
		Y: ndcY * tanV * depth,
		Z: depth,
	}

	return r3.Add(c.Transform.Position, c.Transform.Rotation.Rotate(local))
}
