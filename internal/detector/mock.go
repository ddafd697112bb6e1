package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset hands below model a right hand seen palm-on, wrist near the bottom
// of the frame. Joint positions are chosen so the straightness predicates in
// the gesture package resolve unambiguously.

// fingerPose holds the MCP/PIP/DIP/Tip positions for one finger.
type fingerPose [4]Point3D

var (
	straightFingers = map[int]fingerPose{
		IndexMCP:  {{0.56, 0.64, 0}, {0.57, 0.52, 0}, {0.58, 0.43, 0}, {0.58, 0.33, 0}},
		MiddleMCP: {{0.50, 0.62, 0}, {0.50, 0.50, 0}, {0.50, 0.38, 0}, {0.50, 0.27, 0}},
		RingMCP:   {{0.44, 0.64, 0}, {0.43, 0.52, 0}, {0.42, 0.42, 0}, {0.41, 0.33, 0}},
		PinkyMCP:  {{0.39, 0.67, 0}, {0.37, 0.57, 0}, {0.35, 0.48, 0}, {0.34, 0.41, 0}},
	}

	curledFingers = map[int]fingerPose{
		IndexMCP:  {{0.56, 0.64, 0}, {0.57, 0.60, -0.02}, {0.55, 0.66, -0.04}, {0.53, 0.71, -0.03}},
		MiddleMCP: {{0.50, 0.62, 0}, {0.50, 0.58, -0.02}, {0.49, 0.64, -0.04}, {0.48, 0.70, -0.03}},
		RingMCP:   {{0.44, 0.64, 0}, {0.44, 0.60, -0.02}, {0.43, 0.66, -0.04}, {0.43, 0.71, -0.03}},
		PinkyMCP:  {{0.39, 0.67, 0}, {0.39, 0.64, -0.02}, {0.38, 0.69, -0.04}, {0.38, 0.73, -0.03}},
	}

	// Thumb extended away from the palm.
	straightThumb = fingerPose{{0.57, 0.78, 0.02}, {0.63, 0.73, 0.03}, {0.68, 0.68, 0.03}, {0.73, 0.64, 0.03}}

	// Thumb folded across the palm, tip resting next to the index MCP.
	curledThumb = fingerPose{{0.56, 0.78, 0}, {0.58, 0.72, -0.01}, {0.57, 0.68, -0.02}, {0.58, 0.66, -0.02}}
)

// buildHand assembles a hand fixture from a thumb pose and per-finger poses.
func buildHand(thumb fingerPose, fingers map[int]fingerPose) HandLandmarks {
	h := HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.85, Z: 0}
	for i, p := range thumb {
		h.Points[ThumbCMC+i] = p
	}
	for mcp, pose := range fingers {
		for i, p := range pose {
			h.Points[mcp+i] = p
		}
	}
	return h
}

// pickFingers selects poses per finger: names in straight get the extended
// pose, everything else the curled pose.
func pickFingers(straight ...int) map[int]fingerPose {
	fingers := make(map[int]fingerPose, 4)
	for mcp, pose := range curledFingers {
		fingers[mcp] = pose
	}
	for _, mcp := range straight {
		fingers[mcp] = straightFingers[mcp]
	}
	return fingers
}

// FistLandmarks returns a preset hand with every finger curled and the
// thumb tucked against the index MCP.
func FistLandmarks() HandLandmarks {
	return buildHand(curledThumb, pickFingers())
}

// OpenPalmLandmarks returns a preset hand with all fingers and the thumb
// fully extended.
func OpenPalmLandmarks() HandLandmarks {
	return buildHand(straightThumb, pickFingers(IndexMCP, MiddleMCP, RingMCP, PinkyMCP))
}

// PointingLandmarks returns a preset hand with only the index finger
// extended.
func PointingLandmarks() HandLandmarks {
	return buildHand(curledThumb, pickFingers(IndexMCP))
}

// PeaceLandmarks returns a preset hand with the index and middle fingers
// extended and the rest curled.
func PeaceLandmarks() HandLandmarks {
	return buildHand(curledThumb, pickFingers(IndexMCP, MiddleMCP))
}
