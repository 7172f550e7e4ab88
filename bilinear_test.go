package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBilinear_TargetShapeIsHonored(t *testing.T) {
	assert := assert.New(t)

	src := randomPixmap(10, 8, 40)

	shrunk := Bilinear(src, Shape{Height: 4, Width: 5})
	assert.Equal(5, shrunk.Width)
	assert.Equal(4, shrunk.Height)

	// Unlike seam carving, bilinear resampling can also enlarge.
	grown := Bilinear(src, Shape{Height: 16, Width: 20})
	assert.Equal(20, grown.Width)
	assert.Equal(16, grown.Height)
}

func TestBilinear_IdentityShapeKeepsPixels(t *testing.T) {
	src := randomPixmap(6, 6, 41)
	dst := Bilinear(src, Shape{Height: 6, Width: 6})
	assert.InDeltaSlice(t, src.Pix, dst.Pix, 1e-12)
}

func TestBilinear_ConstantImageStaysConstant(t *testing.T) {
	src := uniformPixmap(9, 7, 0.25)
	dst := Bilinear(src, Shape{Height: 3, Width: 4})
	for i, v := range dst.Pix {
		assert.InDelta(t, 0.25, v, 1e-12, "channel %d", i)
	}
}

func TestBilinear_InterpolatesBetweenNeighbors(t *testing.T) {
	assert := assert.New(t)

	// Two columns, black and white; sampling at double width puts the
	// second output column a quarter of the way between them.
	src := NewPixmap(2, 1)
	src.Set(1, 0, 1, 1, 1)

	dst := Bilinear(src, Shape{Height: 1, Width: 4})
	r0, _, _ := dst.At(0, 0)
	r1, _, _ := dst.At(1, 0)
	r2, _, _ := dst.At(2, 0)
	assert.InDelta(0.0, r0, 1e-12)
	assert.InDelta(0.5, r1, 1e-12)
	assert.InDelta(1.0, r2, 1e-12)
}
