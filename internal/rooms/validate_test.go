package rooms

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWindow(t *testing.T) {
	opensAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateWindow(opensAt, opensAt.Add(time.Hour)))
	assert.ErrorIs(t, ValidateWindow(opensAt, opensAt), ErrMalformedWindow)
	assert.ErrorIs(t, ValidateWindow(opensAt, opensAt.Add(-time.Hour)), ErrMalformedWindow)
}

func TestNormalizeEventChoices(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty is allowed", "", ""},
		{"whitespace only is allowed", "   ", ""},
		{"single choice", "morning", "morning"},
		{"trims around choices", " abcd , efg, c ", "abcd,efg,c"},
		{"drops empty segments", "a,,b,", "a,b"},
		{"keeps inner spaces", "first slot, second slot", "first slot,second slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEventChoices(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEventChoices_Errors(t *testing.T) {
	_, err := NormalizeEventChoices(" , ,")
	assert.ErrorIs(t, err, ErrNoEventChoices)

	_, err = NormalizeEventChoices(strings.Repeat("a", 300))
	assert.ErrorIs(t, err, ErrEventChoicesTooLong)
}
