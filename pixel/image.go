package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

// Image is a drawable image that can be cleared and filled in one go.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by the 16-bit image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	clear(p.Pix)
}

func (p *Buffer) offset(x, y, bpp int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*bpp
}

// fill writes value over every pixel of every row, skipping row padding.
func (p *Buffer) fill(value []byte) {
	var (
		bpp = len(value)
		w   = p.Rect.Dx() * bpp
	)
	for y := 0; y < p.Rect.Dy(); y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for i := 0; i < w; i += bpp {
			copy(row[i:], value)
		}
	}
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit RGB image.
type RGB565Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewRGB565Image(w, h int) *RGB565Image {
	return &RGB565Image{
		Buffer: Buffer{Rect: image.Rect(0, 0, w, h), Pix: make([]byte, w*2*h), Stride: w * 2},
		Order:  binary.NativeEndian,
	}
}

func (p *RGB565Image) ColorModel() color.Model {
	return RGB565Model
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return RGB565{p.Order.Uint16(p.Pix[p.offset(x, y, 2):])}
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[p.offset(x, y, 2):], rgb565Model(c).(RGB565).V)
}

func (p *RGB565Image) Fill(c color.Color) {
	value := make([]byte, 2)
	p.Order.PutUint16(value, rgb565Model(c).(RGB565).V)
	p.fill(value)
}

// BGR565Image is a 16-bits per pixel 5-6-5-bit BGR image.
type BGR565Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewBGR565Image(w, h int) *BGR565Image {
	return &BGR565Image{
		Buffer: Buffer{Rect: image.Rect(0, 0, w, h), Pix: make([]byte, w*2*h), Stride: w * 2},
		Order:  binary.NativeEndian,
	}
}

func (p *BGR565Image) ColorModel() color.Model {
	return BGR565Model
}

func (p *BGR565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return BGR565{p.Order.Uint16(p.Pix[p.offset(x, y, 2):])}
}

func (p *BGR565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[p.offset(x, y, 2):], bgr565Model(c).(BGR565).V)
}

func (p *BGR565Image) Fill(c color.Color) {
	value := make([]byte, 2)
	p.Order.PutUint16(value, bgr565Model(c).(BGR565).V)
	p.fill(value)
}

// BGRAImage is a 32-bits per pixel image stored B, G, R, A in memory, the
// little-endian layout of ARGB8888.
type BGRAImage struct {
	Buffer
}

func NewBGRAImage(w, h int) *BGRAImage {
	return &BGRAImage{
		Buffer: Buffer{Rect: image.Rect(0, 0, w, h), Pix: make([]byte, w*4*h), Stride: w * 4},
	}
}

func (p *BGRAImage) ColorModel() color.Model {
	return BGRAModel
}

func (p *BGRAImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	i := p.offset(x, y, 4)
	s := p.Pix[i : i+4 : i+4]
	return BGRA{B: s[0], G: s[1], R: s[2], A: s[3]}
}

func (p *BGRAImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	v := bgraModel(c).(BGRA)
	i := p.offset(x, y, 4)
	s := p.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = v.B, v.G, v.R, v.A
}

func (p *BGRAImage) Fill(c color.Color) {
	v := bgraModel(c).(BGRA)
	p.fill([]byte{v.B, v.G, v.R, v.A})
}

// RGBAImage adapts [image.RGBA], the little-endian layout of ABGR8888.
type RGBAImage struct {
	*image.RGBA
}

func (p RGBAImage) Clear() {
	clear(p.Pix)
}

func (p RGBAImage) Fill(c color.Color) {
	draw.Draw(p.RGBA, p.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// NewImage returns an Image that reads and writes pix in place. Pixel values
// are stored little-endian, as framebuffer memory is on the supported devices.
// It returns nil for FormatUnknown.
func NewImage(format Format, pix []byte, stride int, rect image.Rectangle) Image {
	buf := Buffer{Rect: rect, Pix: pix, Stride: stride}
	switch format {
	case ABGR8888:
		return RGBAImage{&image.RGBA{Pix: pix, Stride: stride, Rect: rect}}
	case ARGB8888:
		return &BGRAImage{Buffer: buf}
	case FormatRGB565:
		return &RGB565Image{Buffer: buf, Order: binary.LittleEndian}
	case FormatBGR565:
		return &BGR565Image{Buffer: buf, Order: binary.LittleEndian}
	default:
		return nil
	}
}

// Interface checks.
var (
	_ Image = RGBAImage{}
	_ Image = (*BGRAImage)(nil)
	_ Image = (*RGB565Image)(nil)
	_ Image = (*BGR565Image)(nil)
)
