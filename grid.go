package carve

// Grid is a single channel float matrix used for the grayscale image and
// for the per-iteration energy and cost tables. Cell values are stored in
// a flat slice, row by row.
type Grid struct {
	Width  int
	Height int
	Cells  []float64
}

// NewGrid allocates a zero filled grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]float64, width*height),
	}
}

// get returns the cell value at column x, row y.
func (g *Grid) get(x, y int) float64 {
	return g.Cells[x+y*g.Width]
}

// set stores the cell value at column x, row y.
func (g *Grid) set(x, y int, v float64) {
	g.Cells[x+y*g.Width] = v
}

// row returns the cells of row y, backed by the grid storage.
func (g *Grid) row(y int) []float64 {
	return g.Cells[y*g.Width : (y+1)*g.Width]
}

// clone returns a deep copy of the grid.
func (g *Grid) clone() *Grid {
	dst := NewGrid(g.Width, g.Height)
	copy(dst.Cells, g.Cells)
	return dst
}

// removeSeam returns a grid one column narrower, obtained by deleting the
// seam cell of every row while keeping the relative order of the rest.
func (g *Grid) removeSeam(seam Seam) *Grid {
	dst := NewGrid(g.Width-1, g.Height)
	for y := 0; y < g.Height; y++ {
		src := g.row(y)
		out := dst.row(y)
		copy(out, src[:seam[y]])
		copy(out[seam[y]:], src[seam[y]+1:])
	}
	return dst
}

// rotate returns the grid turned 90 degrees in the given direction,
// swapping its dimensions.
func (g *Grid) rotate(clockwise bool) *Grid {
	dst := NewGrid(g.Height, g.Width)
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			if clockwise {
				dst.set(x, y, g.get(y, g.Height-1-x))
			} else {
				dst.set(x, y, g.get(g.Width-1-y, x))
			}
		}
	}
	return dst
}
