package gate

import (
	"sync"
	"time"
)

// WallClock is a TickSource backed by time.Ticker. Each Start runs its own
// goroutine.
type WallClock struct{}

func (WallClock) Start(interval time.Duration, onTick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				onTick()
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

// ManualTicks is a TickSource driven by explicit Fire calls. Hosts that own
// their own clock use it, and so do tests.
type ManualTicks struct {
	mu      sync.Mutex
	onTick  func()
	running bool
	starts  int
}

func (m *ManualTicks) Start(_ time.Duration, onTick func()) func() {
	m.mu.Lock()
	m.onTick = onTick
	m.running = true
	m.starts++
	gen := m.starts
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.starts == gen {
			m.running = false
			m.onTick = nil
		}
	}
}

// Fire delivers n ticks to the running subscriber, stopping early if it
// unsubscribes.
func (m *ManualTicks) Fire(n int) {
	for i := 0; i < n; i++ {
		m.mu.Lock()
		fn := m.onTick
		m.mu.Unlock()
		if fn == nil {
			return
		}
		fn()
	}
}

// Running reports whether a subscriber currently holds the source.
func (m *ManualTicks) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Starts counts how many times the source has been started.
func (m *ManualTicks) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}
