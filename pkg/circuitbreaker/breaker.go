package circuitbreaker

import (
	"sync"
	"time"
)

// Breaker trips after a run of consecutive failed wrap/unwrap pairs so the
// orchestrator stops hammering a network that is rejecting everything. A
// threshold of zero disables it.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	tripped   bool
}

// New creates a breaker that trips after threshold consecutive failures.
func New(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// RecordFailure records one failed pair and reports whether the breaker is
// now tripped.
func (b *Breaker) RecordFailure() bool {
	if b == nil || b.threshold <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.failures >= b.threshold {
		b.tripped = true
	}
	return b.tripped
}

// RecordSuccess resets the consecutive failure count.
func (b *Breaker) RecordSuccess() {
	if b == nil || b.threshold <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.tripped = false
}

// IsOpen reports whether the breaker is tripped.
func (b *Breaker) IsOpen() bool {
	if b == nil || b.threshold <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripped
}

// Reset clears the breaker after a cooldown has been served.
func (b *Breaker) Reset() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.tripped = false
}

// Cooldown returns how long the orchestrator should pause once tripped.
func (b *Breaker) Cooldown() time.Duration {
	if b == nil {
		return 0
	}
	return b.cooldown
}
