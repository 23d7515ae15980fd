package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAtThreshold(t *testing.T) {
	b := New(3, time.Minute)

	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.False(t, b.IsOpen())

	assert.True(t, b.RecordFailure())
	assert.True(t, b.IsOpen())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := New(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()

	// The run of failures must be consecutive.
	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.True(t, b.RecordFailure())
}

func TestBreakerReset(t *testing.T) {
	b := New(1, time.Minute)

	assert.True(t, b.RecordFailure())
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.True(t, b.RecordFailure())
}

func TestBreakerDisabled(t *testing.T) {
	b := New(0, time.Minute)

	for i := 0; i < 10; i++ {
		assert.False(t, b.RecordFailure())
	}
	assert.False(t, b.IsOpen())
}

func TestBreakerNilSafe(t *testing.T) {
	var b *Breaker

	assert.False(t, b.RecordFailure())
	assert.False(t, b.IsOpen())
	assert.Equal(t, time.Duration(0), b.Cooldown())
	b.RecordSuccess()
	b.Reset()
}

func TestBreakerCooldown(t *testing.T) {
	b := New(3, 15*time.Minute)
	assert.Equal(t, 15*time.Minute, b.Cooldown())
}
