package carve

import "image"

// Pixmap is an RGB raster with float64 channels normalized to [0, 1].
// The three channel values of each pixel are interleaved in a flat slice,
// row by row. All carving operations work on this representation; the
// image file formats are decoded into it and encoded out of it at the
// process boundary.
type Pixmap struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPixmap allocates a black pixmap of the given size.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*3),
	}
}

// At returns the channel values of the pixel at column x, row y.
func (p *Pixmap) At(x, y int) (r, g, b float64) {
	off := (x + y*p.Width) * 3
	return p.Pix[off], p.Pix[off+1], p.Pix[off+2]
}

// Set stores the channel values of the pixel at column x, row y.
func (p *Pixmap) Set(x, y int, r, g, b float64) {
	off := (x + y*p.Width) * 3
	p.Pix[off] = r
	p.Pix[off+1] = g
	p.Pix[off+2] = b
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	dst := NewPixmap(p.Width, p.Height)
	copy(dst.Pix, p.Pix)
	return dst
}

// removeSeam returns a pixmap one column narrower, obtained by deleting
// the seam pixel of every row while keeping the relative order of the
// remaining columns.
func (p *Pixmap) removeSeam(seam Seam) *Pixmap {
	dst := NewPixmap(p.Width-1, p.Height)
	for y := 0; y < p.Height; y++ {
		src := p.Pix[y*p.Width*3 : (y+1)*p.Width*3]
		out := dst.Pix[y*dst.Width*3 : (y+1)*dst.Width*3]
		cut := seam[y] * 3
		copy(out, src[:cut])
		copy(out[cut:], src[cut+3:])
	}
	return dst
}

// rotate returns the pixmap turned 90 degrees in the given direction,
// swapping its dimensions.
func (p *Pixmap) rotate(clockwise bool) *Pixmap {
	dst := NewPixmap(p.Height, p.Width)
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			var r, g, b float64
			if clockwise {
				r, g, b = p.At(y, p.Height-1-x)
			} else {
				r, g, b = p.At(p.Width-1-y, x)
			}
			dst.Set(x, y, r, g, b)
		}
	}
	return dst
}

// NRGBA converts the pixmap back to an 8 bit image. Channel values are
// clamped to [0, 1] before scaling, the alpha channel is fully opaque.
func (p *Pixmap) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			r, g, b := p.At(x, y)
			di := dst.PixOffset(x, y)
			dst.Pix[di+0] = quantize(r)
			dst.Pix[di+1] = quantize(g)
			dst.Pix[di+2] = quantize(b)
			dst.Pix[di+3] = 0xff
		}
	}
	return dst
}

// quantize maps a normalized channel value to its 8 bit representation.
func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

// pixmapFromImage normalizes a decoded image into the float representation
// the carver operates on. The alpha channel is discarded.
func pixmapFromImage(img image.Image) *Pixmap {
	src := imgToNRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	dst := NewPixmap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			si := src.PixOffset(x, y)
			dst.Set(x, y,
				float64(src.Pix[si+0])/255,
				float64(src.Pix[si+1])/255,
				float64(src.Pix[si+2])/255,
			)
		}
	}
	return dst
}
