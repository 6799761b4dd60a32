package models

import (
	"time"

	"github.com/google/uuid"
)

// ID document types accepted on registration.
const (
	IDTypePassport = "PASSPORT"
	IDTypeIDCard   = "ID_CARD"
)

// Registrant is a successful (or audited) registration for a waiting room.
// Rows are also written for too-early attempts so organizers can see them.
type Registrant struct {
	ID                  uuid.UUID  `json:"id"`
	RoomID              uuid.UUID  `json:"waitingRoomId"`
	LegalName           string     `json:"legalName"`
	Email               string     `json:"email"`
	IDNumber            string     `json:"idNumber"`
	IDType              string     `json:"idType"`
	PhoneNumber         string     `json:"phoneNumber"`
	EventChoice         string     `json:"eventChoice"`
	TurnstileSuccess    bool       `json:"turnstileSuccess"`
	TurnstileTimestamp  *time.Time `json:"turnstileTimestamp,omitempty"`
	TurnstileFailReason *string    `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
