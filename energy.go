package carve

import "math"

// padValue is the neutral luminance appended past the bottom and right
// edges before differencing, so that border pixels do not read as
// artificial high-gradient regions.
const padValue = 0.5

// GradientMagnitude computes the energy of a grayscale grid as the
// magnitude of its forward differences. For a pixel (x, y) the horizontal
// difference is taken against column x+1 and the vertical one against row
// y+1, substituting the neutral pad beyond the last column and row. With
// inputs in [0, 1] every cell of the result lies in [0, sqrt(2)].
//
// The energy depends on pixel adjacency, so it must be recomputed from the
// current grayscale after every seam removal.
func GradientMagnitude(gray *Grid) *Grid {
	dst := NewGrid(gray.Width, gray.Height)
	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			v := gray.get(x, y)

			right := padValue
			if x+1 < gray.Width {
				right = gray.get(x+1, y)
			}
			below := padValue
			if y+1 < gray.Height {
				below = gray.get(x, y+1)
			}

			dx := right - v
			dy := below - v
			dst.set(x, y, math.Sqrt(dx*dx+dy*dy))
		}
	}
	return dst
}
