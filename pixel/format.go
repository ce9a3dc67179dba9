package pixel

import "fmt"

// Format is a packed pixel format. Names follow the packed component order,
// high bit to low bit, of one native-endian pixel value.
type Format uint32

// Formats.
const (
	FormatUnknown Format = iota
	ABGR8888             // 32-bit, R in the lowest byte
	ARGB8888             // 32-bit, B in the lowest byte
	FormatRGB565             // 16-bit, B in the lowest bits
	FormatBGR565             // 16-bit, R in the lowest bits
)

func (f Format) String() string {
	switch f {
	case ABGR8888:
		return "ABGR8888"
	case ARGB8888:
		return "ARGB8888"
	case FormatRGB565:
		return "RGB565"
	case FormatBGR565:
		return "BGR565"
	default:
		return fmt.Sprintf("Format(%d)", uint32(f))
	}
}

// BytesPerPixel is the storage size of one pixel.
func (f Format) BytesPerPixel() int {
	switch f {
	case ABGR8888, ARGB8888:
		return 4
	case FormatRGB565, FormatBGR565:
		return 2
	default:
		return 0
	}
}

// Bitfield describes the position of one color channel inside a pixel value,
// as reported by the kernel in struct fb_bitfield.
type Bitfield struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

func (b Bitfield) is(offset, length uint32) bool {
	return b.Offset == offset && b.Length == length && b.MsbRight == 0
}

// ParseBitfields detects the Format from the channel layout reported by a
// framebuffer device. A missing alpha channel is accepted for 32-bit layouts.
func ParseBitfields(bitsPerPixel uint32, red, green, blue, alpha Bitfield) Format {
	switch bitsPerPixel {
	case 16:
		switch {
		case red.is(11, 5) && green.is(5, 6) && blue.is(0, 5):
			return FormatRGB565
		case blue.is(11, 5) && green.is(5, 6) && red.is(0, 5):
			return FormatBGR565
		}

	case 32:
		if alpha.Length != 0 && alpha.Length != 8 {
			break
		}
		switch {
		case red.is(0, 8) && green.is(8, 8) && blue.is(16, 8):
			return ABGR8888
		case blue.is(0, 8) && green.is(8, 8) && red.is(16, 8):
			return ARGB8888
		}
	}
	return FormatUnknown
}
