package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Line draws a line between two points, both inclusive.
func Line(dst Image, a, b image.Point, c color.Color) {
	dx, sx := abs(b.X-a.X), sign(b.X-a.X)
	dy, sy := -abs(b.Y-a.Y), sign(b.Y-a.Y)
	e := dx + dy
	for {
		dst.Set(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

// HorizontalLine draws w pixels to the right of (x,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	Box(dst, image.Rect(x, y, x+w, y+1), c)
}

// VerticalLine draws h pixels below (x,y).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	Box(dst, image.Rect(x, y, x+1, y+h), c)
}

// Rectangle draws the outline of rect.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// Box fills rect.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// RoundedBox fills rect with corners rounded by radius pixels.
func RoundedBox(dst Image, rect image.Rectangle, radius int, c color.Color) {
	radius = min(radius, rect.Dx()/2, rect.Dy()/2)
	if radius <= 0 {
		Box(dst, rect, c)
		return
	}

	// Middle band, full height.
	Box(dst, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), c)

	// Left and right bands, shortened by the corner arcs.
	var (
		top    = rect.Min.Y + radius
		bottom = rect.Max.Y - radius - 1
		left   = rect.Min.X + radius
		right  = rect.Max.X - radius - 1
	)
	circle(radius, func(x, y int) {
		Box(dst, image.Rect(left-x, top-y, left, bottom+y+1), c)
		Box(dst, image.Rect(right+1, top-y, right+x+1, bottom+y+1), c)
	})
}

// RoundedRectangle draws the outline of rect with corners rounded by radius pixels.
func RoundedRectangle(dst Image, rect image.Rectangle, radius int, c color.Color) {
	radius = min(radius, rect.Dx()/2, rect.Dy()/2)
	if radius <= 0 {
		Rectangle(dst, rect, c)
		return
	}

	var (
		top    = rect.Min.Y + radius
		bottom = rect.Max.Y - radius - 1
		left   = rect.Min.X + radius
		right  = rect.Max.X - radius - 1
	)
	HorizontalLine(dst, left, rect.Min.Y, right-left+1, c)
	HorizontalLine(dst, left, rect.Max.Y-1, right-left+1, c)
	VerticalLine(dst, rect.Min.X, top, bottom-top+1, c)
	VerticalLine(dst, rect.Max.X-1, top, bottom-top+1, c)
	circle(radius, func(x, y int) {
		dst.Set(left-x, top-y, c)
		dst.Set(right+x, top-y, c)
		dst.Set(left-x, bottom+y, c)
		dst.Set(right+x, bottom+y, c)
	})
}

// circle calls plot for the points of the first quadrant of a circle around
// the origin, using the midpoint algorithm.
func circle(radius int, plot func(x, y int)) {
	x, y := radius, 0
	f := 1 - radius
	for x >= y {
		plot(x, y)
		plot(y, x)
		y++
		if f < 0 {
			f += 2*y + 1
		} else {
			x--
			f += 2*(y-x) + 1
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
