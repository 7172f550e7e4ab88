package carve

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// ErrNotImplemented reports a capability the engine recognizes but does
// not provide, such as seam addition. Callers are expected to log it and
// skip the operation rather than abort.
var ErrNotImplemented = errors.New("not implemented")

// Shape is an image extent as a height and width pair.
type Shape struct {
	Height int
	Width  int
}

// Carver is one content aware resizing session over a single image. It
// owns the working pixel buffers, shrinks them one seam per iteration and
// keeps the per pixel mapping back to the original coordinates. A Carver
// is not safe for concurrent use; every carving pass depends on the
// output of the previous one.
type Carver struct {
	// Marker is the color painted over removed pixels on the
	// visualization canvas.
	Marker color.NRGBA

	finder SeamFinder
	logger zerolog.Logger
	vis    bool

	original  *Pixmap
	img       *Pixmap
	gray      *Grid
	idx       *IndexMap
	canvas    *Pixmap
	history   []Seam
	protected []image.Rectangle
}

// NewCarver starts a carving session over src using the given seam
// finding strategy. When visualize is set, every batch removal refreshes
// a full resolution canvas with the removed pixels painted in the marker
// color. The source pixmap is not modified.
func NewCarver(src *Pixmap, finder SeamFinder, visualize bool, logger zerolog.Logger) *Carver {
	c := &Carver{
		Marker:   color.NRGBA{R: 0xff, A: 0xff},
		finder:   finder,
		logger:   logger,
		vis:      visualize,
		original: src.Clone(),
	}
	c.Reset()
	return c
}

// Reset discards all removals and restores the session to the original
// image, clearing the seam history and the visualization canvas.
func (c *Carver) Reset() {
	c.img = c.original.Clone()
	c.gray = Grayscale(c.img)
	c.idx = NewIndexMap(c.original.Width, c.original.Height)
	c.canvas = nil
	c.history = nil
}

// Shape returns the current working dimensions.
func (c *Carver) Shape() Shape {
	return Shape{Height: c.img.Height, Width: c.img.Width}
}

// Image returns the current working pixmap. The caller must not mutate
// it while the session is still in use.
func (c *Carver) Image() *Pixmap {
	return c.img
}

// History returns the seams removed so far, oldest first. Seams removed
// while the session was rotated are recorded in the rotated frame.
func (c *Carver) History() []Seam {
	return c.history
}

// Canvas returns the visualization produced by the latest removal batch,
// or nil when visualization is disabled.
func (c *Carver) Canvas() *Pixmap {
	return c.canvas
}

// Protect marks regions, given in original image coordinates, whose
// pixels should survive carving. Their energy is raised on every
// iteration, which steers seams around them regardless of how far the
// image has already shrunk or how it is rotated.
func (c *Carver) Protect(regions ...image.Rectangle) {
	c.protected = append(c.protected, regions...)
}

// boostProtected raises the energy of every working pixel whose original
// coordinate falls inside a protected region.
func (c *Carver) boostProtected(energy *Grid) {
	for y := 0; y < energy.Height; y++ {
		for x := 0; x < energy.Width; x++ {
			p := c.idx.at(x, y)
			for _, r := range c.protected {
				if p.In(r) {
					energy.set(x, y, energy.get(x, y)+faceWeight)
					break
				}
			}
		}
	}
}

// RemoveSeams removes n seams from the current orientation. Each
// iteration recomputes the energy and cost grids from the current
// grayscale, asks the finder for a seam, records it and removes it. The
// count must leave at least one column standing; the session is untouched
// on error.
func (c *Carver) RemoveSeams(n int) error {
	if n < 0 {
		return errors.Errorf("seam count %d is negative", n)
	}
	if n >= c.img.Width {
		return errors.Errorf("removing %d seams from width %d leaves no image", n, c.img.Width)
	}

	for i := 0; i < n; i++ {
		energy := GradientMagnitude(c.gray)
		costs := DirectionalCosts(c.gray)
		if len(c.protected) > 0 {
			c.boostProtected(energy)
		}
		seam := c.finder.FindSeam(energy, costs)

		if e := c.logger.Debug(); e.Enabled() {
			e.Int("width", c.img.Width).
				Float64("mean_energy", stat.Mean(energy.Cells, nil)).
				Float64("seam_cost", seamCost(seam, energy, costs)).
				Msg("removing seam")
		}

		c.history = append(c.history, seam.clone())
		if err := c.RemoveSeam(seam); err != nil {
			return err
		}
	}

	if err := c.idx.validate(c.original.Width, c.original.Height); err != nil {
		return errors.Wrap(err, "index map corrupted")
	}
	if c.vis {
		c.PaintSeams()
	}
	return nil
}

// RemoveSeam deletes one column per row from the working image, its
// grayscale and the index map, narrowing all three by one. The seam must
// span the current height with all columns in range; a malformed seam
// indicates a seam finding bug and fails immediately.
func (c *Carver) RemoveSeam(seam Seam) error {
	if err := seam.validate(c.img.Width, c.img.Height); err != nil {
		return errors.Wrap(err, "malformed seam")
	}
	c.img = c.img.removeSeam(seam)
	c.gray = c.gray.removeSeam(seam)
	c.idx = c.idx.removeSeam(seam)
	return nil
}

// Rotate turns the working buffers 90 degrees, swapping the roles of
// rows and columns. Energy and cost grids derived before the rotation
// are invalid afterwards; RemoveSeams always rebuilds them, so callers
// only need to care when driving the session manually.
func (c *Carver) Rotate(clockwise bool) {
	c.img = c.img.rotate(clockwise)
	c.gray = c.gray.rotate(clockwise)
	c.idx = c.idx.rotate(clockwise)
}

// RemoveVertical removes n vertical seams, shrinking the width.
func (c *Carver) RemoveVertical(n int) error {
	return c.RemoveSeams(n)
}

// RemoveHorizontal removes n horizontal seams, shrinking the height. The
// session is rotated a quarter turn so the vertical machinery applies,
// then rotated back.
func (c *Carver) RemoveHorizontal(n int) error {
	if n < 0 {
		return errors.Errorf("seam count %d is negative", n)
	}
	if n >= c.img.Height {
		return errors.Errorf("removing %d seams from height %d leaves no image", n, c.img.Height)
	}
	if n == 0 {
		return nil
	}

	c.Rotate(true)
	err := c.RemoveSeams(n)
	c.Rotate(false)
	return err
}

// AddSeams would enlarge the image by duplicating low energy seams. The
// engine does not implement seam addition; the open questions are which
// seams to duplicate and how a duplicated pixel should be represented in
// the index map.
func (c *Carver) AddSeams(n int) error {
	return errors.Wrap(ErrNotImplemented, "seam addition")
}

// ResizeTo carves the image from its current shape down to target,
// removing vertical seams first, then horizontal ones. Enlarging in
// either dimension is a usage error reported before anything is removed.
func (c *Carver) ResizeTo(target Shape) error {
	cur := c.Shape()
	dh := cur.Height - target.Height
	dw := cur.Width - target.Width

	c.logger.Info().
		Int("height_delta", dh).
		Int("width_delta", dw).
		Msg("resize deltas")

	if dh < 0 || dw < 0 {
		return errors.Errorf("target %dx%d exceeds current %dx%d: seam carving cannot enlarge",
			target.Width, target.Height, cur.Width, cur.Height)
	}
	if err := c.RemoveVertical(dw); err != nil {
		return err
	}
	return c.RemoveHorizontal(dh)
}

// PaintSeams rebuilds the visualization canvas: a copy of the original
// image with the marker color over every pixel whose coordinate no
// longer appears in the index map. The canvas is stored on the session
// and returned.
func (c *Carver) PaintSeams() *Pixmap {
	present := c.idx.mask(c.original.Width, c.original.Height)
	mr := float64(c.Marker.R) / 255
	mg := float64(c.Marker.G) / 255
	mb := float64(c.Marker.B) / 255

	canvas := c.original.Clone()
	for i, ok := range present {
		if !ok {
			canvas.Pix[i*3] = mr
			canvas.Pix[i*3+1] = mg
			canvas.Pix[i*3+2] = mb
		}
	}
	c.canvas = canvas
	return canvas
}
