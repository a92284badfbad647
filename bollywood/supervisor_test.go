package bollywood

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopStrategy_AlwaysStops(t *testing.T) {
	s := StopStrategy()
	assert.Equal(t, DirectiveStop, s.Decide(errors.New("boom")))
}

func TestRestartStrategy_AlwaysRestarts(t *testing.T) {
	s := RestartStrategy()
	assert.Equal(t, DirectiveRestart, s.Decide(errors.New("boom")))
}

func TestRestartWithBackoff_DoublesAndCapsAtMax(t *testing.T) {
	s := RestartWithBackoff(100*time.Millisecond, 400*time.Millisecond, WithMaxRetries(3))
	cfg := s.backoffConfig()

	var state BackoffState
	now := time.Unix(0, 0)

	d1, exceeded1 := state.advance(*cfg, now)
	assert.Equal(t, 100*time.Millisecond, d1)
	assert.False(t, exceeded1)

	d2, exceeded2 := state.advance(*cfg, now.Add(time.Millisecond))
	assert.Equal(t, 200*time.Millisecond, d2)
	assert.False(t, exceeded2)

	d3, exceeded3 := state.advance(*cfg, now.Add(2*time.Millisecond))
	assert.Equal(t, 400*time.Millisecond, d3)
	assert.False(t, exceeded3)

	d4, exceeded4 := state.advance(*cfg, now.Add(3*time.Millisecond))
	assert.Equal(t, 400*time.Millisecond, d4, "delay stays capped at max")
	assert.True(t, exceeded4, "4th failure exceeds maxRetries=3")
}

func TestBackoffState_ResetsAfterIdle(t *testing.T) {
	s := RestartWithBackoff(100*time.Millisecond, 400*time.Millisecond, WithResetAfter(time.Second))
	cfg := s.backoffConfig()

	var state BackoffState
	now := time.Unix(0, 0)

	state.advance(*cfg, now)
	state.advance(*cfg, now.Add(time.Millisecond))
	assert.Equal(t, 2, state.FailureCount)

	delay, exceeded := state.advance(*cfg, now.Add(2*time.Second))
	assert.False(t, exceeded)
	assert.Equal(t, 100*time.Millisecond, delay, "idle past resetAfter restarts the doubling from min")
	assert.Equal(t, 1, state.FailureCount)
}

func TestRestartWithBackoff_UnlimitedRetriesByDefault(t *testing.T) {
	s := RestartWithBackoff(10*time.Millisecond, 20*time.Millisecond)
	cfg := s.backoffConfig()

	var state BackoffState
	now := time.Unix(0, 0)
	for i := 0; i < 50; i++ {
		_, exceeded := state.advance(*cfg, now.Add(time.Duration(i)*time.Millisecond))
		assert.False(t, exceeded, "maxRetries=0 means no escalation")
	}
}
