package draw

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// NewFace returns the Go Regular font at size points and dpi.
func NewFace(size, dpi float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("draw: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}

// Text draws s with its baseline starting at dot and returns the bounds of
// the drawn text.
func Text(dst Image, dot image.Point, s string, face font.Face, c color.Color) image.Rectangle {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	bounds, _ := d.BoundString(s)
	d.DrawString(s)
	return image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	)
}

// TextSize returns the advance width and line height of s.
func TextSize(s string, face font.Face) image.Point {
	m := face.Metrics()
	return image.Pt(font.MeasureString(face, s).Ceil(), (m.Ascent + m.Descent).Ceil())
}
