package site

import "github.com/goliatone/go-claimform/pkg/transition"

// Menu is the mobile navigation drawer.
type Menu struct {
	open bool
	lock *transition.Lock
}

// NewMenu builds a closed menu. A nil lock uses the 300ms default.
func NewMenu(lock *transition.Lock) *Menu {
	if lock == nil {
		lock = transition.New(transition.MenuCooldown)
	}
	return &Menu{lock: lock}
}

// IsOpen reports whether the drawer is shown.
func (m *Menu) IsOpen() bool {
	return m.open
}

// Toggle flips the drawer unless a previous toggle is still animating.
func (m *Menu) Toggle() bool {
	if !m.lock.TryAcquire() {
		return false
	}
	m.open = !m.open
	return true
}

// Close shuts the drawer without waiting for the lock; navigation away from
// the page always closes it.
func (m *Menu) Close() {
	m.open = false
}
