package scene

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
	"gonum.org/v1/gonum/spatial/r3"
)

// MapperConfig holds configuration options for landmark mapping.
type MapperConfig struct {
	// Mirrored flips the x axis when the visual feed is horizontally
	// flipped relative to the physical sensor (typical for selfie-style
	// feeds).
	Mirrored bool
	// MinDistance and MaxDistance clamp the camera-to-target reference
	// distance in world units.
	MinDistance float64
	MaxDistance float64
	// DepthScale converts the landmark's unitless z offset into world
	// units of depth relative to the reference distance.
	DepthScale float64
}

// DefaultMapperConfig returns a MapperConfig with sensible default values.
func DefaultMapperConfig() MapperConfig {
	return MapperConfig{
		Mirrored:    true,
		MinDistance: 0.3,
		MaxDistance: 3.0,
		DepthScale:  1.0,
	}
}

// Mapper converts a normalized hand landmark into a 3D world position
// near the tracked target. It carries no state; output is deterministic
// for a given input.
type Mapper struct {
	config MapperConfig
}

// NewMapper creates a Mapper with the given configuration.
func NewMapper(config MapperConfig) *Mapper {
	return &Mapper{config: config}
}

// ScreenPoint computes the screen-space coordinates and depth for a
// landmark before unprojection. The depth anchors at the clamped
// camera-to-target distance so the mapped point lands near the target's
// depth plane.
func (m *Mapper) ScreenPoint(lm detector.Point3D, cam *Camera, target r3.Vec) (x, y, depth float64) {
	ref := r3.Norm(r3.Sub(cam.Transform.Position, target))
	ref = math.Max(m.config.MinDistance, math.Min(m.config.MaxDistance, ref))

	lx := lm.X
	if m.config.Mirrored {
		lx = 1 - lm.X
	}

	x = lx * cam.Width
	y = (1 - lm.Y) * cam.Height
	depth = ref + lm.Z*m.config.DepthScale
	return x, y, depth
}

// Map converts the landmark into a world-space point through the
// camera's projection.
func (m *Mapper) Map(lm detector.Point3D, cam *Camera, target r3.Vec) r3.Vec {
	x, y, depth := m.ScreenPoint(lm, cam, target)
	return cam.ScreenToWorld(x, y, depth)
}
