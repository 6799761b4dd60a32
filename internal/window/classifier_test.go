package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	opensAt := base
	closesAt := base.Add(time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"well before open", opensAt.Add(-24 * time.Hour), StatusEarly},
		{"one nanosecond before open", opensAt.Add(-time.Nanosecond), StatusEarly},
		{"exactly at open", opensAt, StatusOpen},
		{"inside window", opensAt.Add(30 * time.Minute), StatusOpen},
		{"exactly at close", closesAt, StatusOpen},
		{"one nanosecond after close", closesAt.Add(time.Nanosecond), StatusLate},
		{"well after close", closesAt.Add(48 * time.Hour), StatusLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.now, opensAt, closesAt))
		})
	}
}

func TestClassify_ZeroWidthWindow(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusOpen, Classify(at, at, at))
	assert.Equal(t, StatusEarly, Classify(at.Add(-time.Second), at, at))
	assert.Equal(t, StatusLate, Classify(at.Add(time.Second), at, at))
}

func TestClassify_TimezoneIndependent(t *testing.T) {
	// The same instant encoded in different zones must classify identically.
	opensAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	closesAt := opensAt.Add(time.Hour)

	tlv := time.FixedZone("IST", 2*60*60)
	nowInTLV := time.Date(2024, 3, 1, 14, 30, 0, 0, tlv) // 12:30 UTC

	assert.Equal(t, StatusOpen, Classify(nowInTLV, opensAt, closesAt))
}
