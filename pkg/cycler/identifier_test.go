package cycler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenID(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Unix(1724500000, 0)

	for i := 0; i < 100; i++ {
		id := NewTokenID(rng, now)
		s := id.String()

		// 18 random digits plus the 5 digit timestamp suffix. The leading
		// digit is nonzero so the decimal width never collapses.
		require.Len(t, s, 23)
		assert.NotEqual(t, byte('0'), s[0])

		suffix := fmt.Sprintf("%05d", now.Unix()%100000)
		assert.Equal(t, suffix, s[18:])
	}
}

func TestNewTokenIDTimestampSuffixZeroPadded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// A timestamp whose last five digits start with zeros must still occupy
	// all five positions.
	now := time.Unix(1724500007, 0)
	id := NewTokenID(rng, now)
	assert.Equal(t, "00007", id.String()[18:])
}

func TestNewTokenIDVaries(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Unix(1724500000, 0)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewTokenID(rng, now).String()] = true
	}
	assert.Greater(t, len(seen), 1)
}
