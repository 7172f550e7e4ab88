package carve

import (
	"image"

	"github.com/pkg/errors"
)

// IndexMap records, for every pixel of the working image, the coordinate
// that pixel had in the original image. It shrinks in lockstep with seam
// removal and rotates together with the pixel buffers, so the stored
// coordinates always refer to the original frame regardless of the
// current orientation.
type IndexMap struct {
	Width  int
	Height int
	Points []image.Point
}

// NewIndexMap builds the identity mapping for an image of the given size.
func NewIndexMap(width, height int) *IndexMap {
	m := &IndexMap{
		Width:  width,
		Height: height,
		Points: make([]image.Point, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Points[x+y*width] = image.Point{X: x, Y: y}
		}
	}
	return m
}

// at returns the original coordinate of the pixel at column x, row y.
func (m *IndexMap) at(x, y int) image.Point {
	return m.Points[x+y*m.Width]
}

// removeSeam returns an index map one column narrower, dropping the seam
// cell of every row while preserving the order of the survivors.
func (m *IndexMap) removeSeam(seam Seam) *IndexMap {
	dst := &IndexMap{
		Width:  m.Width - 1,
		Height: m.Height,
		Points: make([]image.Point, (m.Width-1)*m.Height),
	}
	for y := 0; y < m.Height; y++ {
		src := m.Points[y*m.Width : (y+1)*m.Width]
		out := dst.Points[y*dst.Width : (y+1)*dst.Width]
		copy(out, src[:seam[y]])
		copy(out[seam[y]:], src[seam[y]+1:])
	}
	return dst
}

// rotate returns the index map turned 90 degrees in the given direction.
// Only cell positions move; the stored original coordinates are
// unchanged.
func (m *IndexMap) rotate(clockwise bool) *IndexMap {
	dst := &IndexMap{
		Width:  m.Height,
		Height: m.Width,
		Points: make([]image.Point, m.Width*m.Height),
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			var p image.Point
			if clockwise {
				p = m.at(y, m.Height-1-x)
			} else {
				p = m.at(m.Width-1-y, x)
			}
			dst.Points[x+y*dst.Width] = p
		}
	}
	return dst
}

// mask reports which original coordinates are still referenced by the
// map, as a flat row-major boolean grid of the original dimensions.
func (m *IndexMap) mask(origWidth, origHeight int) []bool {
	present := make([]bool, origWidth*origHeight)
	for _, p := range m.Points {
		present[p.X+p.Y*origWidth] = true
	}
	return present
}

// validate checks the map invariant: the cell count matches the current
// dimensions and every cell holds a distinct coordinate inside the
// original bounds. A violation means seam removal or rotation corrupted
// the mapping.
func (m *IndexMap) validate(origWidth, origHeight int) error {
	if len(m.Points) != m.Width*m.Height {
		return errors.Errorf("index map holds %d entries for a %dx%d image",
			len(m.Points), m.Width, m.Height)
	}
	seen := make([]bool, origWidth*origHeight)
	for _, p := range m.Points {
		if p.X < 0 || p.X >= origWidth || p.Y < 0 || p.Y >= origHeight {
			return errors.Errorf("index map entry (%d, %d) outside original bounds %dx%d",
				p.X, p.Y, origWidth, origHeight)
		}
		if seen[p.X+p.Y*origWidth] {
			return errors.Errorf("index map entry (%d, %d) duplicated", p.X, p.Y)
		}
		seen[p.X+p.Y*origWidth] = true
	}
	return nil
}
