package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a time-gated registration page for an event. Registration is
// permitted only inside the [OpensAt, ClosesAt] window and only once the
// organizer has published the room.
type Room struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Markdown         string    `json:"markdown"`
	OpensAt          time.Time `json:"opensAt"`
	ClosesAt         time.Time `json:"closesAt"`
	Published        bool      `json:"published"`
	EventChoices     string    `json:"eventChoices"` // comma-joined list, e.g. "morning,evening"
	DesktopImageBlob *string   `json:"desktopImageBlob"`
	MobileImageBlob  *string   `json:"mobileImageBlob"`
	OwnerID          string    `json:"-"` // external IdP subject
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
