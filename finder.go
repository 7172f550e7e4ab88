package carve

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Seam finding strategies selectable at session creation.
const (
	StrategyDP     = "dp"
	StrategyGreedy = "greedy"
)

// SeamFinder selects the next seam to remove. Implementations read the
// energy and cost grids of the current iteration and own no state of
// their own, so a single finder value can serve many sessions.
type SeamFinder interface {
	FindSeam(energy *Grid, costs *CostGrids) Seam
}

// NewFinder returns the seam finder implementing the named strategy.
// Unknown names report ErrNotImplemented so callers can degrade to a
// diagnostic instead of aborting.
func NewFinder(strategy string) (SeamFinder, error) {
	switch strategy {
	case StrategyDP:
		return DPFinder{}, nil
	case StrategyGreedy:
		return GreedyFinder{}, nil
	default:
		return nil, errors.Wrapf(ErrNotImplemented, "seam finding strategy %q", strategy)
	}
}

// GreedyFinder grows a seam downward from the cheapest pixel of the top
// row, moving to whichever of the three reachable pixels of the next row
// is cheapest. It runs in O(height) per seam but only finds a local
// optimum.
type GreedyFinder struct{}

// FindSeam implements SeamFinder.
func (GreedyFinder) FindSeam(energy *Grid, costs *CostGrids) Seam {
	w, h := energy.Width, energy.Height
	seam := make(Seam, h)

	col := floats.MinIdx(energy.row(0))
	seam[0] = col

	for y := 1; y < h; y++ {
		best, bestCost := col, math.Inf(1)
		if col > 0 {
			best, bestCost = col-1, energy.get(col-1, y)+costs.Left.get(col-1, y)
		}
		if c := energy.get(col, y) + costs.Vertical.get(col, y); c < bestCost {
			best, bestCost = col, c
		}
		if col < w-1 {
			if c := energy.get(col+1, y) + costs.Right.get(col+1, y); c < bestCost {
				best, bestCost = col+1, c
			}
		}
		col = best
		seam[y] = col
	}
	return seam
}

// DPFinder finds the seam with the globally minimal total cost
//
//	E[0][s0] + sum over rows y > 0 of E[y][sy] + C_dir[y][sy]
//
// where dir is the column step taken into row y. It fills a cumulative
// cost grid top to bottom together with a backtrack grid of predecessor
// directions, then walks the backtrack grid bottom up. O(width*height)
// time and space per seam.
type DPFinder struct{}

// FindSeam implements SeamFinder.
func (DPFinder) FindSeam(energy *Grid, costs *CostGrids) Seam {
	w, h := energy.Width, energy.Height
	cum := energy.clone()
	back := make([]int8, w*h)

	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			// Candidates are probed left to right so earlier directions
			// win ties.
			best, dir := math.Inf(1), int8(0)
			if x > 0 {
				best, dir = cum.get(x-1, y-1)+costs.Left.get(x, y), -1
			}
			if c := cum.get(x, y-1) + costs.Vertical.get(x, y); c < best {
				best, dir = c, 0
			}
			if x < w-1 {
				if c := cum.get(x+1, y-1) + costs.Right.get(x, y); c < best {
					best, dir = c, 1
				}
			}
			cum.set(x, y, energy.get(x, y)+best)
			back[x+y*w] = dir
		}
	}

	seam := make(Seam, h)
	col := floats.MinIdx(cum.row(h - 1))
	seam[h-1] = col
	for y := h - 1; y > 0; y-- {
		col += int(back[col+y*w])
		// The walk can step one past either edge on degenerate rows;
		// clamp into the valid range before recording.
		if col > w-2 {
			col = w - 2
		}
		if col < 0 {
			col = 0
		}
		seam[y-1] = col
	}
	return seam
}

// seamCost evaluates the functional minimized by DPFinder for an
// arbitrary connected seam, which makes different finders comparable on
// the same grids.
func seamCost(seam Seam, energy *Grid, costs *CostGrids) float64 {
	total := energy.get(seam[0], 0)
	for y := 1; y < len(seam); y++ {
		x := seam[y]
		total += energy.get(x, y)
		switch x - seam[y-1] {
		case -1:
			total += costs.Right.get(x, y)
		case 0:
			total += costs.Vertical.get(x, y)
		case 1:
			total += costs.Left.get(x, y)
		}
	}
	return total
}
