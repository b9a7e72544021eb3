package ws

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTyping_AutoExpiry(t *testing.T) {
	tracker := NewTypingTracker(30 * time.Millisecond)

	var expired atomic.Int32
	tracker.Start("conv1", "u1", func() { expired.Add(1) })

	require.Eventually(t, func() bool {
		return expired.Load() == 1
	}, time.Second, 5*time.Millisecond, "typing indicator should expire on its own")

	// Expired indicators are gone; a stop is a no-op.
	assert.False(t, tracker.Stop("conv1", "u1"))
}

func TestTyping_ExplicitStopCancelsExpiry(t *testing.T) {
	tracker := NewTypingTracker(30 * time.Millisecond)

	var expired atomic.Int32
	tracker.Start("conv1", "u1", func() { expired.Add(1) })
	assert.True(t, tracker.Stop("conv1", "u1"))

	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 0, expired.Load())
}

func TestTyping_RestartResetsTimer(t *testing.T) {
	tracker := NewTypingTracker(50 * time.Millisecond)

	var expired atomic.Int32
	tracker.Start("conv1", "u1", func() { expired.Add(1) })

	// Keep refreshing; the callback must not fire while refreshes arrive.
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		tracker.Start("conv1", "u1", func() { expired.Add(1) })
	}
	assert.EqualValues(t, 0, expired.Load())

	require.Eventually(t, func() bool {
		return expired.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestTyping_StopAll(t *testing.T) {
	tracker := NewTypingTracker(time.Minute)

	tracker.Start("conv1", "u1", nil)
	tracker.Start("conv2", "u1", nil)
	tracker.Start("conv1", "u2", nil)

	conversations := tracker.StopAll("u1")
	assert.ElementsMatch(t, []string{"conv1", "conv2"}, conversations)

	// The other user's indicator survives.
	assert.True(t, tracker.Stop("conv1", "u2"))
	assert.False(t, tracker.Stop("conv1", "u1"))
}
