// Package window classifies an instant against a room's registration window
// and provides the polled clock that drives reclassification.
package window

import "time"

// Status is the derived state of a registration window relative to "now".
// It is never stored; recompute it from the current time and the room.
type Status string

const (
	// StatusEarly means the window has not opened yet.
	StatusEarly Status = "early"
	// StatusOpen means registration is currently permitted.
	StatusOpen Status = "open"
	// StatusLate means the window has already closed.
	StatusLate Status = "late"
)

// Classify maps (now, opensAt, closesAt) to early, open or late.
// Bounds are closed-closed: now == opensAt and now == closesAt both report
// open, so a zero-width window (opensAt == closesAt) is open for exactly one
// instant. Malformed windows (opensAt after closesAt) are not validated here;
// room creation rejects them upstream.
func Classify(now, opensAt, closesAt time.Time) Status {
	switch {
	case now.Before(opensAt):
		return StatusEarly
	case now.After(closesAt):
		return StatusLate
	default:
		return StatusOpen
	}
}
