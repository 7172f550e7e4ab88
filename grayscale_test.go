package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrayscale_UsesLuminanceWeights(t *testing.T) {
	assert := assert.New(t)

	src := NewPixmap(3, 1)
	src.Set(0, 0, 1, 0, 0)
	src.Set(1, 0, 0, 1, 0)
	src.Set(2, 0, 0, 0, 1)

	gray := Grayscale(src)
	assert.InDelta(0.299, gray.get(0, 0), 1e-12)
	assert.InDelta(0.587, gray.get(1, 0), 1e-12)
	assert.InDelta(0.114, gray.get(2, 0), 1e-12)
}

func TestGrayscale_IsDeterministic(t *testing.T) {
	src := randomPixmap(9, 7, 21)

	first := Grayscale(src)
	second := Grayscale(src)
	assert.Equal(t, first.Cells, second.Cells)
}

func TestGrayscale_StaysInUnitRange(t *testing.T) {
	gray := Grayscale(randomPixmap(12, 12, 22))
	for _, v := range gray.Cells {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
