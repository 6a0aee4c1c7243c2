// Package transition provides the cool-down guard that keeps animated UI
// moves (carousel pages, menu toggles) from overlapping.
package transition

import (
	"sync"
	"time"
)

// State is the lock position.
type State string

const (
	StateIdle      State = "idle"
	StateAnimating State = "animating"
)

// Default cool-downs used by the site shell.
const (
	CarouselCooldown = 500 * time.Millisecond
	MenuCooldown     = 300 * time.Millisecond
)

// Lock admits one transition per cool-down window. Moves attempted while a
// transition is animating are refused rather than queued.
type Lock struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	until    time.Time
}

// Option configures a Lock.
type Option func(*Lock)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Lock) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns an idle lock with the given cool-down.
func New(cooldown time.Duration, opts ...Option) *Lock {
	l := &Lock{cooldown: cooldown, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// TryAcquire starts a transition when the lock is idle and reports whether it
// did.
func (l *Lock) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Before(l.until) {
		return false
	}
	l.until = now.Add(l.cooldown)
	return true
}

// State reports whether a transition is still animating.
func (l *Lock) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Before(l.until) {
		return StateAnimating
	}
	return StateIdle
}

// Cooldown returns the configured window.
func (l *Lock) Cooldown() time.Duration {
	return l.cooldown
}
