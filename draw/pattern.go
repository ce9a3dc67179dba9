package draw

import (
	"image"
	"image/color"
)

// Gradient fills rect with a diagonal color gradient, shifted by offset so
// consecutive frames scroll.
func Gradient(dst Image, rect image.Rectangle, offset int) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, y, color.RGBA{
				R: uint8(x + y + offset),
				G: uint8(x - y + offset),
				B: uint8(x + y - offset),
				A: 0xff,
			})
		}
	}
}

// ColorBars fills rect with vertical bars of the primary and secondary colors.
func ColorBars(dst Image, rect image.Rectangle) {
	bars := []color.RGBA{
		{0xff, 0xff, 0xff, 0xff},
		{0xff, 0xff, 0x00, 0xff},
		{0x00, 0xff, 0xff, 0xff},
		{0x00, 0xff, 0x00, 0xff},
		{0xff, 0x00, 0xff, 0xff},
		{0xff, 0x00, 0x00, 0xff},
		{0x00, 0x00, 0xff, 0xff},
		{0x00, 0x00, 0x00, 0xff},
	}
	w := rect.Dx()
	for i, c := range bars {
		Box(dst, image.Rect(rect.Min.X+i*w/len(bars), rect.Min.Y, rect.Min.X+(i+1)*w/len(bars), rect.Max.Y), c)
	}
}
