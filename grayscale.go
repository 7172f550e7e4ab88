package carve

// Luminance weights of the ITU-R BT.601 conversion.
const (
	lumR = 0.299
	lumG = 0.587
	lumB = 0.114
)

// Grayscale collapses the three color channels of the pixmap into a single
// luminance grid. The output stays in the [0, 1] range of the input.
func Grayscale(src *Pixmap) *Grid {
	dst := NewGrid(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			r, g, b := src.At(x, y)
			dst.set(x, y, r*lumR+g*lumG+b*lumB)
		}
	}
	return dst
}
