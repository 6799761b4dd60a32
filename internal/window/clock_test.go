package window

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_RefreshesNow(t *testing.T) {
	clock := NewClock(5 * time.Millisecond)
	before := clock.Now()

	clock.Start(context.Background())
	defer clock.Stop()

	require.Eventually(t, func() bool {
		return clock.Now().After(before)
	}, time.Second, 5*time.Millisecond)
}

func TestClock_StopHaltsTicking(t *testing.T) {
	clock := NewClock(5 * time.Millisecond)
	seeded := clock.Now()
	clock.Start(context.Background())

	require.Eventually(t, func() bool {
		return clock.Now().After(seeded)
	}, time.Second, 5*time.Millisecond)

	clock.Stop()
	frozen := clock.Now()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, clock.Now())

	// Stop is idempotent.
	clock.Stop()
}

func TestClock_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := NewClock(5 * time.Millisecond)
	clock.Start(ctx)

	cancel()
	time.Sleep(20 * time.Millisecond)
	frozen := clock.Now()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, clock.Now())
	clock.Stop()
}

func TestClock_DefaultInterval(t *testing.T) {
	clock := NewClock(0)
	assert.Equal(t, DefaultTickInterval, clock.interval)
}
