// Package gate contains the per-step gating primitives used by journeys:
// the OTP resend countdown and the read-to-the-end scroll gate.
package gate

import (
	"sync"
	"time"
)

// ResendWindowSeconds is the countdown before a verification code may be
// resent.
const ResendWindowSeconds = 60

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// TickSource delivers ticks to a callback until the returned stop func is
// called. stop must be safe to call more than once and from inside onTick.
type TickSource interface {
	Start(interval time.Duration, onTick func()) (stop func())
}

// VerificationState is the externally visible countdown state.
type VerificationState struct {
	RemainingSeconds int  `json:"remainingSeconds"`
	CanResend        bool `json:"canResend"`
}

// VerificationTimer counts down from the resend window and then allows a
// resend. Its lifetime is the lifetime of the verification step that owns
// it; the owner must call Cancel when the step is left.
type VerificationTimer struct {
	mu        sync.Mutex
	src       TickSource
	window    int
	remaining int
	stop      func()
	cancelled bool
}

// NewVerificationTimer starts a countdown of ResendWindowSeconds on src.
func NewVerificationTimer(src TickSource) *VerificationTimer {
	t := &VerificationTimer{src: src, window: ResendWindowSeconds}
	t.mu.Lock()
	t.runLocked()
	t.mu.Unlock()
	return t
}

func (t *VerificationTimer) runLocked() {
	t.remaining = t.window
	t.stop = t.src.Start(TickInterval, t.tick)
}

func (t *VerificationTimer) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.remaining == 0 {
		return
	}
	t.remaining--
	if t.remaining == 0 {
		t.stopLocked()
	}
}

func (t *VerificationTimer) stopLocked() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// State reports the remaining seconds and whether a resend is allowed.
func (t *VerificationTimer) State() VerificationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return VerificationState{
		RemainingSeconds: t.remaining,
		CanResend:        !t.cancelled && t.remaining == 0,
	}
}

// Resend restarts the countdown. It is a no-op returning false unless the
// countdown has expired.
func (t *VerificationTimer) Resend() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.remaining > 0 {
		return false
	}
	t.runLocked()
	return true
}

// Active reports whether the timer still holds a tick source, i.e. it has
// been neither cancelled nor left expired.
func (t *VerificationTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.cancelled && t.stop != nil
}

// Cancel releases the tick source. Further ticks are ignored and Resend is
// refused.
func (t *VerificationTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	t.stopLocked()
}
