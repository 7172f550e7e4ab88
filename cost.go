package carve

import "math"

// CostGrids holds the three forward energy grids derived from the current
// grayscale. Each cell estimates the brightness discontinuity created by
// routing a seam through it from the given predecessor direction: Left for
// a predecessor one column to the left, Vertical for the same column,
// Right for one column to the right.
type CostGrids struct {
	Left     *Grid
	Vertical *Grid
	Right    *Grid
}

// DirectionalCosts computes the forward energy grids from a grayscale
// grid. Row neighbors wrap circularly, so row 0 reads the last row as its
// predecessor and the last row reads row 0 as its successor. The same wrap
// applies to the left column neighbor at column 0. This boundary policy is
// deliberately different from the constant padding used by
// GradientMagnitude and the two must not be unified.
//
// The left column term makes the Left and Right grids meaningless at
// column 0 in a non-wrapping reading; seam finders never take a left
// predecessor out of column 0, so those cells only matter through the
// wrapped definition used here.
func DirectionalCosts(gray *Grid) *CostGrids {
	w, h := gray.Width, gray.Height
	c := &CostGrids{
		Left:     NewGrid(w, h),
		Vertical: NewGrid(w, h),
		Right:    NewGrid(w, h),
	}

	for y := 0; y < h; y++ {
		prevRow := (y - 1 + h) % h
		nextRow := (y + 1) % h
		for x := 0; x < w; x++ {
			above := gray.get(x, prevRow)
			below := gray.get(x, nextRow)
			left := gray.get((x-1+w)%w, y)

			vertical := math.Abs(below - above)
			c.Vertical.set(x, y, vertical)
			c.Left.set(x, y, vertical+math.Abs(above-left))
			c.Right.set(x, y, vertical+math.Abs(below-left))
		}
	}
	return c
}
