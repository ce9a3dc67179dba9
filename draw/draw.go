// Package draw has the drawing primitives used to paint test patterns and
// labels on a surface.
package draw

import (
	"image"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = draw.Over

	// Src specifies ``src in mask''.
	Src Op = draw.Src
)

// Draw aligns r.Min in dst with sp in src and replaces the rectangle r in dst
// with the result of the composition.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	draw.Draw(dst, r, src, sp, op)
}

// Damage tracks the rectangles changed since the last flush.
type Damage struct {
	rects []image.Rectangle
}

// Add records r as changed, empty rectangles are ignored.
func (d *Damage) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	for i, other := range d.rects {
		if r.In(other) {
			return
		}
		if other.In(r) {
			d.rects[i] = r
			return
		}
	}
	d.rects = append(d.rects, r)
}

// Rects returns the changed rectangles and resets the tracker.
func (d *Damage) Rects() []image.Rectangle {
	rects := d.rects
	d.rects = nil
	return rects
}
