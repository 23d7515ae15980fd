package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	t.Run("rejects empty list", func(t *testing.T) {
		_, err := NewPool(nil)
		assert.Error(t, err)

		_, err = NewPool([]string{})
		assert.Error(t, err)
	})

	t.Run("starts at the first endpoint", func(t *testing.T) {
		pool, err := NewPool([]string{"https://a.example", "https://b.example"})
		require.NoError(t, err)
		assert.Equal(t, "https://a.example", pool.Current())
		assert.Equal(t, 0, pool.Index())
		assert.Equal(t, 2, pool.Len())
	})
}

func TestPoolAdvance(t *testing.T) {
	pool, err := NewPool([]string{"https://a.example", "https://b.example", "https://c.example"})
	require.NoError(t, err)

	assert.Equal(t, "https://b.example", pool.Advance())
	assert.Equal(t, "https://c.example", pool.Advance())

	// Advancing past the last endpoint wraps back to the first.
	assert.Equal(t, "https://a.example", pool.Advance())
	assert.Equal(t, "https://a.example", pool.Current())
}

func TestPoolAdvanceSingleEndpoint(t *testing.T) {
	pool, err := NewPool([]string{"https://only.example"})
	require.NoError(t, err)

	assert.Equal(t, "https://only.example", pool.Advance())
	assert.Equal(t, "https://only.example", pool.Current())
}
