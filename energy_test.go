package carve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradientMagnitude_StaysInExpectedRange(t *testing.T) {
	limit := math.Sqrt2 + 1e-12

	for seed := int64(0); seed < 5; seed++ {
		energy := GradientMagnitude(Grayscale(randomPixmap(15, 11, seed)))
		for _, v := range energy.Cells {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, limit)
		}
	}
}

func TestGradientMagnitude_NeutralImageHasZeroEnergy(t *testing.T) {
	// A flat image at the pad value produces no gradient anywhere, the
	// border included: the constant padding keeps the image edges from
	// reading as artificial discontinuities.
	energy := GradientMagnitude(Grayscale(uniformPixmap(6, 6, padValue)))
	for i, v := range energy.Cells {
		assert.InDelta(t, 0, v, 1e-12, "cell %d", i)
	}
}

func TestGradientMagnitude_ForwardDifferences(t *testing.T) {
	assert := assert.New(t)

	gray := NewGrid(2, 2)
	gray.set(0, 0, 0.2)
	gray.set(1, 0, 0.6)
	gray.set(0, 1, 0.1)
	gray.set(1, 1, 0.3)

	energy := GradientMagnitude(gray)

	// Interior cell (0, 0): dx against (1, 0), dy against (0, 1).
	assert.InDelta(math.Sqrt(0.4*0.4+0.1*0.1), energy.get(0, 0), 1e-12)
	// Right edge (1, 0): dx against the pad, dy against (1, 1).
	assert.InDelta(math.Sqrt(0.1*0.1+0.3*0.3), energy.get(1, 0), 1e-12)
	// Bottom edge (0, 1): dx against (1, 1), dy against the pad.
	assert.InDelta(math.Sqrt(0.2*0.2+0.4*0.4), energy.get(0, 1), 1e-12)
	// Corner (1, 1): both differences against the pad.
	assert.InDelta(math.Sqrt(0.2*0.2+0.2*0.2), energy.get(1, 1), 1e-12)
}

func TestGradientMagnitude_ReflectsCurrentAdjacency(t *testing.T) {
	assert := assert.New(t)

	// Removing a seam changes which pixels neighbor each other, so the
	// energy of the narrower image differs from any column subset of the
	// wider one.
	gray := Grayscale(randomPixmap(6, 4, 30))
	before := GradientMagnitude(gray)

	narrow := gray.removeSeam(Seam{2, 2, 2, 2})
	after := GradientMagnitude(narrow)

	assert.Equal(5, after.Width)
	assert.NotEqual(before.get(1, 0), after.get(1, 0))
}
