package gate

import "sync"

// ScrollEpsilon absorbs sub-pixel rounding when checking for the end of a
// scrollable region.
const ScrollEpsilon = 5.0

// ScrollSample is one scroll position report from the presentation layer.
type ScrollSample struct {
	Offset   float64 `json:"offset"`
	Viewport float64 `json:"viewport"`
	Content  float64 `json:"content"`
}

// AtEnd reports whether the sample shows the bottom of the content.
func (s ScrollSample) AtEnd() bool {
	return s.Offset+s.Viewport >= s.Content-ScrollEpsilon
}

// ScrollGate opens the first time the region is read to the end and stays
// open for its lifetime, regardless of later samples.
type ScrollGate struct {
	mu      sync.Mutex
	reached bool
}

// NewScrollGate returns a closed gate.
func NewScrollGate() *ScrollGate { return &ScrollGate{} }

// Observe feeds a sample and returns the gate state afterwards.
func (g *ScrollGate) Observe(s ScrollSample) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.reached && s.AtEnd() {
		g.reached = true
	}
	return g.reached
}

// ReachedEnd reports whether any sample so far reached the end.
func (g *ScrollGate) ReachedEnd() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reached
}
