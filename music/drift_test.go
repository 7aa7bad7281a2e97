package music

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriftCorrectorSeedsWithFirstSample(t *testing.T) {
	t.Parallel()

	d := NewDriftCorrector(4)
	assert.True(t, d.Observe(10.1, 10))
	assert.InDelta(t, 0.1, d.Filtered(), 1e-9)
	assert.InDelta(t, 0.1, d.Last(), 1e-9)

	assert.True(t, d.Observe(12, 12))
	assert.InDelta(t, 0.08, d.Filtered(), 1e-9)
	assert.Equal(t, 2, d.Samples())
}

func TestDriftCorrectorConverges(t *testing.T) {
	t.Parallel()

	const (
		desync  = 0.1
		epsilon = 1e-3
	)

	d := NewDriftCorrector(0)
	d.Observe(1, 1)

	// every sample keeps 0.8 of the remaining error
	n := int(math.Ceil(math.Log(epsilon/desync) / math.Log(filterRetain)))
	for i := 0; i < n; i++ {
		scheduled := float64(i + 2)
		d.Observe(scheduled+desync, scheduled)
	}

	assert.Less(t, math.Abs(d.Filtered()-desync), epsilon)
}

func TestDriftCorrectorIgnoresWarmup(t *testing.T) {
	t.Parallel()

	d := NewDriftCorrector(4)
	assert.False(t, d.Observe(1.5, 1))
	assert.False(t, d.Observe(3.9, 3))
	assert.Equal(t, 0, d.Samples())
	assert.Equal(t, 0.0, d.Filtered())

	assert.True(t, d.Observe(4.2, 4))
	assert.InDelta(t, 0.2, d.Filtered(), 1e-9)
}

func TestDriftCorrectorCorrectedInterval(t *testing.T) {
	t.Parallel()

	d := NewDriftCorrector(0)
	assert.Equal(t, 0.5, d.CorrectedInterval(0.5))

	d.Observe(5.05, 5)
	assert.InDelta(t, 0.45, d.CorrectedInterval(0.5), 1e-9)

	d.Observe(6, 6.05)
	assert.Greater(t, d.CorrectedInterval(0.5), 0.45)

	d.Reset()
	assert.Equal(t, 0, d.Samples())
	assert.Equal(t, 0.5, d.CorrectedInterval(0.5))
}
