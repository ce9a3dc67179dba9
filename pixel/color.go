package pixel

import "image/color"

// Models for the packed color types.
var (
	RGB565Model color.Model = color.ModelFunc(rgb565Model)
	BGR565Model color.Model = color.ModelFunc(bgr565Model)
	BGRAModel   color.Model = color.ModelFunc(bgraModel)
)

// RGB565 represents a 16-bit 5-6-5 RGB color.
type RGB565 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c RGB565) RGBA() (r, g, b, a uint32) {
	return expand565(c.V>>11, c.V>>5, c.V)
}

func rgb565Model(c color.Color) color.Color {
	if _, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB565{uint16(r&0xF800 | (g&0xFC00)>>5 | (b&0xF800)>>11)}
}

// BGR565 represents a 16-bit 5-6-5 BGR color.
type BGR565 struct {
	// CBlue, 5, CGreen, 6, CRed, 5
	V uint16
}

func (c BGR565) RGBA() (r, g, b, a uint32) {
	return expand565(c.V, c.V>>5, c.V>>11)
}

func bgr565Model(c color.Color) color.Color {
	if _, ok := c.(BGR565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return BGR565{uint16(b&0xF800 | (g&0xFC00)>>5 | (r&0xF800)>>11)}
}

// expand565 widens the low 5, 6 and 5 bits of the arguments to 16-bit channels.
func expand565(r5, g6, b5 uint16) (r, g, b, a uint32) {
	red := (r5 & 0x1F) << 3
	grn := (g6 & 0x3F) << 2
	blu := (b5 & 0x1F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

// BGRA is a non-alpha-premultiplied 32-bit color stored B, G, R, A in memory.
type BGRA struct {
	B, G, R, A uint8
}

func (c BGRA) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func bgraModel(c color.Color) color.Color {
	if _, ok := c.(BGRA); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return BGRA{B: n.B, G: n.G, R: n.R, A: n.A}
}
