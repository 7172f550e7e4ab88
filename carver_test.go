package carve

import (
	"image"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const (
	imgWidth  = 10
	imgHeight = 10
)

// uniformPixmap builds a pixmap with every channel of every pixel set to v.
func uniformPixmap(width, height int, v float64) *Pixmap {
	p := NewPixmap(width, height)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// randomPixmap builds a reproducible pixmap of uniformly distributed noise.
func randomPixmap(width, height int, seed int64) *Pixmap {
	rng := rand.New(rand.NewSource(seed))
	p := NewPixmap(width, height)
	for i := range p.Pix {
		p.Pix[i] = rng.Float64()
	}
	return p
}

func newTestCarver(src *Pixmap, visualize bool) *Carver {
	return NewCarver(src, DPFinder{}, visualize, zerolog.Nop())
}

func TestCarver_RemoveVerticalShrinksWidthOnly(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(imgWidth, imgHeight, 1), false)
	assert.NoError(c.RemoveVertical(3))

	shape := c.Shape()
	assert.Equal(imgWidth-3, shape.Width)
	assert.Equal(imgHeight, shape.Height)
	assert.Len(c.History(), 3)
}

func TestCarver_RemoveHorizontalShrinksHeightOnly(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(imgWidth, imgHeight, 2), false)
	assert.NoError(c.RemoveHorizontal(4))

	shape := c.Shape()
	assert.Equal(imgWidth, shape.Width)
	assert.Equal(imgHeight-4, shape.Height)
}

func TestCarver_IndexMapInvariantAfterMixedRemovals(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(imgWidth, imgHeight, 3), false)
	assert.NoError(c.RemoveVertical(2))
	assert.NoError(c.RemoveHorizontal(3))
	assert.NoError(c.RemoveVertical(1))

	shape := c.Shape()
	assert.Equal(imgWidth-3, shape.Width)
	assert.Equal(imgHeight-3, shape.Height)

	assert.NoError(c.idx.validate(imgWidth, imgHeight))
	assert.Len(c.idx.Points, shape.Width*shape.Height)
}

func TestCarver_UniformImageRemovalKeepsIndicesValid(t *testing.T) {
	assert := assert.New(t)

	// A constant color image has uniform energy, so every column ties as
	// the minimal seam. Whatever column the finder settles on, the result
	// must still be a valid one pixel narrower image.
	c := newTestCarver(uniformPixmap(4, 4, 0.5), false)
	assert.NoError(c.RemoveVertical(1))

	shape := c.Shape()
	assert.Equal(3, shape.Width)
	assert.Equal(4, shape.Height)
	assert.NoError(c.idx.validate(4, 4))
}

func TestCarver_ResizeToRemovesExactSeamCounts(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(10, 10, 4), false)
	assert.NoError(c.ResizeTo(Shape{Height: 10, Width: 8}))

	shape := c.Shape()
	assert.Equal(8, shape.Width)
	assert.Equal(10, shape.Height)
	assert.Len(c.History(), 2)
}

func TestCarver_ResizeToRejectsEnlargement(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(10, 10, 5), false)
	assert.Error(c.ResizeTo(Shape{Height: 12, Width: 10}))

	// Nothing must have been removed before the request was rejected.
	assert.Equal(Shape{Height: 10, Width: 10}, c.Shape())
	assert.Empty(c.History())
}

func TestCarver_RemovalCountMustKeepOneColumn(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(5, 5, 6), false)
	assert.Error(c.RemoveSeams(5))
	assert.Error(c.RemoveSeams(-1))
	assert.Error(c.RemoveHorizontal(5))

	assert.Equal(Shape{Height: 5, Width: 5}, c.Shape())
}

func TestCarver_MalformedSeamFailsFast(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(randomPixmap(5, 5, 7), false)

	assert.Error(c.RemoveSeam(Seam{0, 0, 0}))          // wrong length
	assert.Error(c.RemoveSeam(Seam{0, 0, 0, 0, 5}))    // column past the width
	assert.Error(c.RemoveSeam(Seam{0, 0, 0, 0, -1}))   // negative column
	assert.NoError(c.RemoveSeam(Seam{0, 1, 2, 3, 4}))  // connected and in range
	assert.Equal(4, c.Shape().Width)
}

func TestCarver_AddSeamsIsNotImplemented(t *testing.T) {
	c := newTestCarver(randomPixmap(5, 5, 8), false)

	err := c.AddSeams(2)
	assert.True(t, errors.Is(err, ErrNotImplemented))
	assert.Equal(t, Shape{Height: 5, Width: 5}, c.Shape())
}

func TestCarver_RotatePairRestoresImage(t *testing.T) {
	assert := assert.New(t)

	src := randomPixmap(7, 5, 9)
	c := newTestCarver(src, false)

	c.Rotate(true)
	assert.Equal(Shape{Height: 7, Width: 5}, c.Shape())

	c.Rotate(false)
	assert.Equal(Shape{Height: 5, Width: 7}, c.Shape())
	assert.Equal(src.Pix, c.Image().Pix)
	assert.NoError(c.idx.validate(7, 5))
}

func TestCarver_PaintSeamsMarksExactlyTheRemovedPixels(t *testing.T) {
	assert := assert.New(t)

	c := newTestCarver(uniformPixmap(8, 6, 0.5), true)
	assert.NoError(c.RemoveVertical(2))

	canvas := c.Canvas()
	if !assert.NotNil(canvas) {
		return
	}
	assert.Equal(8, canvas.Width)
	assert.Equal(6, canvas.Height)

	present := c.idx.mask(8, 6)
	var marked int
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			r, g, b := canvas.At(x, y)
			isMarker := r == 1 && g == 0 && b == 0
			if isMarker {
				marked++
			}
			// A pixel carries the marker color exactly when its original
			// coordinate no longer appears in the index map.
			assert.Equal(!present[x+y*8], isMarker, "pixel (%d, %d)", x, y)
		}
	}
	assert.Equal(2*6, marked)
}

func TestCarver_ResetRestoresOriginalState(t *testing.T) {
	assert := assert.New(t)

	src := randomPixmap(6, 6, 10)
	c := newTestCarver(src, false)
	assert.NoError(c.RemoveVertical(3))

	c.Reset()
	assert.Equal(Shape{Height: 6, Width: 6}, c.Shape())
	assert.Equal(src.Pix, c.Image().Pix)
	assert.Empty(c.History())
	assert.Nil(c.Canvas())
}

func TestCarver_ProtectedRegionSurvivesCarving(t *testing.T) {
	assert := assert.New(t)

	// Flat background, so the only energy differences come from the
	// protection boost; the boosted block must still be fully referenced
	// by the index map after removing half the columns around it.
	c := newTestCarver(uniformPixmap(10, 6, 0.5), false)
	region := image.Rect(4, 1, 7, 5)
	c.Protect(region)
	assert.NoError(c.RemoveVertical(5))

	present := c.idx.mask(10, 6)
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			assert.True(present[x+y*10], "protected pixel (%d, %d) was removed", x, y)
		}
	}
}
