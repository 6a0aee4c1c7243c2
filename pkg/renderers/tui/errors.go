package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoIntake is returned when an intake page has no form state.
	ErrNoIntake = errors.New("tui: intake page without form state")
)
