package form

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the registration payload, validated structurally before
// any remote call is attempted.
type RegisterInput struct {
	LegalName     string `json:"legalName" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email,max=100"`
	IDNumber      string `json:"idNumber" validate:"required,min=1,max=100"`
	IDType        string `json:"idType" validate:"required,oneof=PASSPORT ID_CARD"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,max=100,plausible_phone"`
	EventChoice   string `json:"eventChoice" validate:"omitempty,max=100"`
	WaitingRoomID string `json:"waitingRoomId" validate:"required,uuid"`
}

// FieldError is one per-field validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries per-field failures. It never reaches the network:
// a failing validation prevents the remote call entirely.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid registration input: " + strings.Join(parts, "; ")
}

// NewValidator returns a validator with the custom phone check registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = RegisterValidations(v)
	return v
}

// RegisterValidations adds the waiting-room validation tags to v. Also used
// to extend gin's binding engine at startup.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("plausible_phone", func(fl validator.FieldLevel) bool {
		return PlausiblePhone(fl.Field().String())
	})
}

// PlausiblePhone reports whether s looks like a phone number: an optional
// leading +, then 6 to 15 digits after stripping common separators. This is
// intentionally loose; numbers like "0541234567" and "+18006543210" both
// pass, carrier-level validity is not this layer's job.
func PlausiblePhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] == '+' {
		s = s[1:]
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, ignore
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 15
}
