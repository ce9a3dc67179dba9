package framebuffer

import (
	"bytes"
	"unsafe"

	"github.com/BeatGlow/video/internal/ioctl"
	"github.com/BeatGlow/video/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioPutVScreenInfo ioctl.Command = 0x4601
	fbioGetFScreenInfo ioctl.Command = 0x4602
	fbioPanDisplay     ioctl.Command = 0x4606

	fbTypePackedPixels = 0
	fbVisualTrueColor  = 2

	fbActivateNow   = 0
	fbActivateAll   = 64
	fbActivateForce = 128
)

// From the mdss_fb / mdp kernel driver sources.
const (
	msmfbIOCTLMagic          = 'm'
	mdpDisplayCommitOverlay  = 1
	msmfbDisplayCommitNumber = 164
)

var msmfbDisplayCommit = ioctl.IOW(msmfbIOCTLMagic, msmfbDisplayCommitNumber, unsafe.Sizeof(mdpDisplayCommit{}))

// fixScreenInfo is struct fb_fix_screeninfo.
type fixScreenInfo struct {
	ID           [16]byte  // Identification string eg "TT Builtin"
	SmemStart    uintptr   // Start of frame buffer mem
	SmemLen      uint32    // Length of frame buffer mem
	Type         uint32    // FB_TYPE_
	TypeAux      uint32    // Interleave for interleaved Planes
	Visual       uint32    // FB_VISUAL_
	Xpanstep     uint16    // Zero if no hardware panning
	Ypanstep     uint16    // Zero if no hardware panning
	Ywrapstep    uint16    // Zero if no hardware ywrap
	LineLength   uint32    // Length of a line in bytes
	MmioStart    uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen      uint32    // Length of Memory Mapped I/O
	Accel        uint32    // Type of acceleration available
	Capabilities uint16    // FB_CAP_
	Reserved     [2]uint16 // Reserved for future compatibility
}

func (info *fixScreenInfo) name() string {
	id := info.ID[:]
	if i := bytes.IndexByte(id, 0); i >= 0 {
		id = id[:i]
	}
	return string(id)
}

// varScreenInfo is struct fb_var_screeninfo: device independent changeable
// information about a frame buffer device and a specific video mode.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha pixel.Bitfield
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func (info *varScreenInfo) format() pixel.Format {
	return pixel.ParseBitfields(info.BitsPerPixel, info.Red, info.Green, info.Blue, info.Alpha)
}

type mdpRect struct {
	X, Y, W, H uint32
}

// mdpDisplayCommit is the MSMFB_DISPLAY_COMMIT request.
type mdpDisplayCommit struct {
	Flags         uint32
	WaitForFinish uint32
	Var           varScreenInfo
	ROI           mdpRect
}
