package carve

import "github.com/pkg/errors"

// Seam is a connected vertical path of pixels, stored as one column index
// per row from top to bottom. Adjacent entries differ by at most one, so
// removing the seam never tears the image apart.
type Seam []int

// validate checks the seam against the dimensions of the image it is
// about to be removed from. A failure here is an internal invariant
// violation in seam finding, not a user error.
func (s Seam) validate(width, height int) error {
	if len(s) != height {
		return errors.Errorf("seam length %d does not match image height %d", len(s), height)
	}
	for y, x := range s {
		if x < 0 || x >= width {
			return errors.Errorf("seam column %d at row %d outside image width %d", x, y, width)
		}
	}
	return nil
}

// clone returns an independent copy of the seam, detached from any buffer
// the finder may reuse.
func (s Seam) clone() Seam {
	dst := make(Seam, len(s))
	copy(dst, s)
	return dst
}
