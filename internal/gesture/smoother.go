package gesture

// DefaultWindowSize is the number of raw labels the smoother votes over.
// Smaller windows respond faster; larger windows ride out more noise.
const DefaultWindowSize = 5

// Smoother is a bounded FIFO of recent raw gesture labels that exposes
// the majority-vote label. It low-pass filters single-frame
// misclassifications out of the stream.
//
// Smoother is not safe for concurrent use; the pipeline mutates it from
// a single consumer goroutine only.
type Smoother struct {
	window []Gesture
	size   int
}

// NewSmoother creates a Smoother voting over the given number of frames.
// Sizes below 1 fall back to DefaultWindowSize.
func NewSmoother(size int) *Smoother {
	if size < 1 {
		size = DefaultWindowSize
	}
	return &Smoother{
		window: make([]Gesture, 0, size),
		size:   size,
	}
}

// Append pushes a raw label into the window, evicting the oldest entry
// when the window is full.
func (s *Smoother) Append(g Gesture) {
	if len(s.window) >= s.size {
		// Shift left by 1, dropping the oldest label
		copy(s.window, s.window[1:])
		s.window = s.window[:s.size-1]
	}
	s.window = append(s.window, g)
}

// Current returns the most frequent label in the window. Ties go to the
// label encountered first in insertion order. An empty window yields
// Unknown.
func (s *Smoother) Current() Gesture {
	if len(s.window) == 0 {
		return Unknown
	}

	counts := make(map[Gesture]int, len(s.window))
	order := make([]Gesture, 0, len(s.window))
	for _, g := range s.window {
		if counts[g] == 0 {
			order = append(order, g)
		}
		counts[g]++
	}

	best := order[0]
	for _, g := range order[1:] {
		if counts[g] > counts[best] {
			best = g
		}
	}
	return best
}

// Len returns the number of labels currently in the window.
func (s *Smoother) Len() int {
	return len(s.window)
}
