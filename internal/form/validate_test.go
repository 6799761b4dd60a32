package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlausiblePhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0541234567", true},
		{"+18006543210", true},
		{"+972 54-123-4567", true},
		{"(800) 654.3210", true},
		{"123456", true},
		{"123456789012345", true},
		{"", false},
		{"   ", false},
		{"+", false},
		{"12345", false},
		{"1234567890123456", false},
		{"054-CALL-NOW", false},
		{"12+34567", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, PlausiblePhone(tt.input))
		})
	}
}

func validInput() RegisterInput {
	return RegisterInput{
		LegalName:     "Dana Levi",
		Email:         "dana@example.com",
		IDNumber:      "123456789",
		IDType:        "PASSPORT",
		PhoneNumber:   "0541234567",
		EventChoice:   "morning",
		WaitingRoomID: "7e7f9a48-5a1e-4a4c-9d8e-2f6a1b3c4d5e",
	}
}

func TestRegisterInputValidation(t *testing.T) {
	v := NewValidator()

	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, v.Struct(validInput()))
	})

	t.Run("event choice is optional", func(t *testing.T) {
		in := validInput()
		in.EventChoice = ""
		assert.NoError(t, v.Struct(in))
	})

	mutations := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"empty legal name", func(in *RegisterInput) { in.LegalName = "" }},
		{"one-char legal name", func(in *RegisterInput) { in.LegalName = "D" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"empty id number", func(in *RegisterInput) { in.IDNumber = "" }},
		{"unknown id type", func(in *RegisterInput) { in.IDType = "DRIVERS_LICENSE" }},
		{"implausible phone", func(in *RegisterInput) { in.PhoneNumber = "hello" }},
		{"non-uuid room id", func(in *RegisterInput) { in.WaitingRoomID = "room-1" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			assert.Error(t, v.Struct(in))
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	verr := &ValidationError{Fields: []FieldError{
		{Field: "Email", Reason: "email"},
		{Field: "IDType", Reason: "oneof"},
	}}
	msg := verr.Error()
	require.Contains(t, msg, "Email: email")
	require.Contains(t, msg, "IDType: oneof")
}
