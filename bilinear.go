package carve

// Bilinear resizes the image to the target shape by plain bilinear
// interpolation. It is content blind and serves as the uniform scaling
// baseline next to seam carving; unlike carving it can both shrink and
// enlarge.
func Bilinear(src *Pixmap, target Shape) *Pixmap {
	dst := NewPixmap(target.Width, target.Height)

	for y := 0; y < target.Height; y++ {
		sy := scaledCoord(y, src.Height, target.Height)
		y1 := int(sy)
		y2 := y1 + 1
		if y2 > src.Height-1 {
			y2 = src.Height - 1
		}
		fy := sy - float64(y1)

		for x := 0; x < target.Width; x++ {
			sx := scaledCoord(x, src.Width, target.Width)
			x1 := int(sx)
			x2 := x1 + 1
			if x2 > src.Width-1 {
				x2 = src.Width - 1
			}
			fx := sx - float64(x1)

			r11, g11, b11 := src.At(x1, y1)
			r21, g21, b21 := src.At(x2, y1)
			r12, g12, b12 := src.At(x1, y2)
			r22, g22, b22 := src.At(x2, y2)

			top := [3]float64{
				r11 + (r21-r11)*fx,
				g11 + (g21-g11)*fx,
				b11 + (b21-b11)*fx,
			}
			bottom := [3]float64{
				r12 + (r22-r12)*fx,
				g12 + (g22-g12)*fx,
				b12 + (b22-b12)*fx,
			}
			dst.Set(x, y,
				top[0]+(bottom[0]-top[0])*fy,
				top[1]+(bottom[1]-top[1])*fy,
				top[2]+(bottom[2]-top[2])*fy,
			)
		}
	}
	return dst
}

// scaledCoord maps an output coordinate back into the source axis,
// clamped so the interpolation window stays inside the image.
func scaledCoord(out, sizeIn, sizeOut int) float64 {
	s := float64(out) * float64(sizeIn) / float64(sizeOut)
	if max := float64(sizeIn - 1); s > max {
		return max
	}
	return s
}
