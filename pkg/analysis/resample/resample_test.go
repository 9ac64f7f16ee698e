package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterp_ExactNodes(t *testing.T) {
	xs := []float64{0, 0.25, 0.5, 1}
	ys := []float64{1, 2, 3, 4}
	for i, x := range xs {
		assert.Equal(t, ys[i], Interp(xs, ys, x), "node %d", i)
	}
}

func TestInterp_Between(t *testing.T) {
	xs := []float64{0, 1}
	ys := []float64{0, 10}
	assert.InDelta(t, 5.0, Interp(xs, ys, 0.5), 1e-12)
	assert.InDelta(t, 2.5, Interp(xs, ys, 0.25), 1e-12)
}

func TestInterp_ClampsOutside(t *testing.T) {
	xs := []float64{0.1, 0.9}
	ys := []float64{3, 7}
	assert.Equal(t, 3.0, Interp(xs, ys, -1))
	assert.Equal(t, 3.0, Interp(xs, ys, 0.05))
	assert.Equal(t, 7.0, Interp(xs, ys, 0.95))
	assert.Equal(t, 7.0, Interp(xs, ys, 2))
}

func TestInterp_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Interp(nil, nil, 0.5))
}

func TestInterp_SingleSample(t *testing.T) {
	xs := []float64{0.5}
	ys := []float64{7}
	assert.Equal(t, 7.0, Interp(xs, ys, 0.2))
	assert.Equal(t, 7.0, Interp(xs, ys, 0.5))
	assert.Equal(t, 7.0, Interp(xs, ys, 0.9))
}
