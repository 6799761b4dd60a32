package rooms

import (
	"errors"
	"strings"
	"time"
)

// Validation errors for organizer-supplied room configuration.
var (
	// ErrMalformedWindow rejects windows where opens_at is not strictly
	// before closes_at. Such a window could never reach "open" once the
	// clock passes closes_at, so it is refused at configuration time
	// rather than silently classified.
	ErrMalformedWindow = errors.New("opensAt must be before closesAt")
	// ErrNoEventChoices rejects event-choice strings that contain
	// separators but no actual choices (e.g. " , ,").
	ErrNoEventChoices = errors.New("no event choices")
	// ErrEventChoicesTooLong bounds the raw event-choice string.
	ErrEventChoicesTooLong = errors.New("event choices too long")
)

const maxEventChoicesLen = 256

// ValidateWindow checks the registration window ordering.
func ValidateWindow(opensAt, closesAt time.Time) error {
	if !opensAt.Before(closesAt) {
		return ErrMalformedWindow
	}
	return nil
}

// NormalizeEventChoices canonicalizes a comma-separated choice list: each
// choice is trimmed, empties are dropped, and the result re-joined. An empty
// (or all-whitespace) input is allowed and normalizes to ""; a non-empty
// input that yields no choices is an error.
func NormalizeEventChoices(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > maxEventChoicesLen {
		return "", ErrEventChoicesTooLong
	}
	var choices []string
	for _, part := range strings.Split(trimmed, ",") {
		if p := strings.TrimSpace(part); p != "" {
			choices = append(choices, p)
		}
	}
	if len(choices) == 0 {
		return "", ErrNoEventChoices
	}
	return strings.Join(choices, ","), nil
}
