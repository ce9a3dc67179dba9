// Package framebuffer drives a Linux framebuffer device (fbdev) with the
// Qualcomm MSM display commit extension.
//
// The device is opened with [Open], which queries the current mode and
// publishes it as the only display mode. [Device.CreateSurface] maps the device
// memory for drawing, [Device.UpdateSurface] latches the mapped memory to the
// panel and [Device.Close] restores the original mode.
//
// A Device is not safe for concurrent use.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"unsafe"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/video"
	"github.com/BeatGlow/video/internal/ioctl"
	"github.com/BeatGlow/video/pixel"
)

// ErrNotSupported is returned by [Open] on platforms without fbdev.
var ErrNotSupported = errors.New("framebuffer: not supported")

const (
	// DefaultDevice is the device opened when nothing else is configured.
	DefaultDevice = "/dev/fb0"

	// EnvDevice names the environment variable that overrides the device path.
	EnvDevice = "VIDEO_FBDEVICE"

	// RefreshRate is the refresh rate reported for the published mode.
	RefreshRate = 60

	// Format is the pixel format of the published mode and of surfaces.
	Format = pixel.ABGR8888
)

// Config is the framebuffer configuration.
type Config struct {
	// Device path, [EnvDevice] takes precedence when set.
	Device string

	// Backlight pin, driven high while a surface exists. Optional.
	Backlight gpio.PinOut

	// Logger for diagnostics, nil discards.
	Logger *slog.Logger
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Device: DefaultDevice,
}

// devicePath resolves the device to open.
func devicePath(config *Config) string {
	if path := os.Getenv(EnvDevice); path != "" {
		return path
	}
	if config.Device != "" {
		return config.Device
	}
	return DefaultDevice
}

// device is the kernel side of an open framebuffer.
type device interface {
	ioctl(cmd ioctl.Command, arg unsafe.Pointer) error
	mmap(length int) ([]byte, error)
	munmap([]byte) error
	pageSize() int
	Close() error
}

type state uint8

const (
	stateClosed state = iota
	stateOpened
	stateMapped
)

func (s state) String() string {
	switch s {
	case stateOpened:
		return "opened"
	case stateMapped:
		return "mapped"
	default:
		return "closed"
	}
}

// Device is an open framebuffer.
type Device struct {
	dev       device
	path      string
	log       *slog.Logger
	backlight gpio.PinOut
	state     state
	restored  bool
	fix       fixScreenInfo
	vinfo     varScreenInfo
	orig      varScreenInfo
	mode      video.DisplayMode
	mem       []byte // whole mapping, including the page offset
	memOffset int
}

// Surface is a drawable view of the mapped framebuffer memory. It is valid
// until [Device.DestroySurface] or [Device.Close].
type Surface struct {
	// Format of the pixels.
	Format pixel.Format

	// Pix is the mapped memory, starting at the first pixel.
	Pix []byte

	// Pitch is the length of one line in bytes.
	Pitch int

	// Rect is the visible area.
	Rect image.Rectangle
}

// Image returns an image that draws directly into the mapped memory.
func (s *Surface) Image() pixel.Image {
	return pixel.NewImage(s.Format, s.Pix, s.Pitch, s.Rect)
}

func open(dev device, path string, config *Config) (*Device, error) {
	d := &Device{
		dev:       dev,
		path:      path,
		log:       video.LoggerOrDiscard(config.Logger).With("driver", "framebuffer", "device", path),
		backlight: config.Backlight,
	}
	if d.backlight == gpio.INVALID {
		d.backlight = nil
	}

	fail := func(request string, err error) (*Device, error) {
		_ = dev.Close()
		d.log.Error("init failed", "request", request, "err", err)
		return nil, fmt.Errorf("%w: %s: %s: %w", video.ErrInit, path, request, err)
	}

	if err := dev.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&d.fix)); err != nil {
		return fail("FBIOGET_FSCREENINFO", err)
	}
	if err := dev.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&d.vinfo)); err != nil {
		return fail("FBIOGET_VSCREENINFO", err)
	}
	d.orig = d.vinfo

	d.log.Debug("opened framebuffer", "name", d.fix.name())
	if d.fix.Type != fbTypePackedPixels {
		return fail("FBIOGET_FSCREENINFO", errors.New("can handle only packed pixel frame buffers"))
	}
	if d.fix.Visual != fbVisualTrueColor {
		return fail("FBIOGET_FSCREENINFO", errors.New("can handle only true color frame buffers"))
	}

	// ABGR8888 is always published, a different layout is only reported.
	if detected := d.vinfo.format(); detected != Format {
		d.log.Warn("pixel layout differs from published format", "detected", detected, "published", Format)
	}

	d.mode = video.DisplayMode{
		Format:      Format,
		Width:       int(d.vinfo.Xres),
		Height:      int(d.vinfo.Yres),
		RefreshRate: RefreshRate,
	}
	d.state = stateOpened
	d.log.Debug("init done", "mode", d.mode)
	return d, nil
}

func (d *Device) String() string {
	return fmt.Sprintf("framebuffer %s (%s) %s", d.path, d.fix.name(), d.state)
}

// Name returns the identification string reported by the driver.
func (d *Device) Name() string {
	return d.fix.name()
}

// Modes returns the display modes; a framebuffer has exactly one.
func (d *Device) Modes() []video.DisplayMode {
	return []video.DisplayMode{d.mode}
}

// SetDisplayMode accepts only the published mode, mode switching is not supported.
func (d *Device) SetDisplayMode(mode video.DisplayMode) error {
	if d.state == stateClosed {
		return fmt.Errorf("%w: framebuffer is %s", video.ErrState, d.state)
	}
	if mode != d.mode {
		return fmt.Errorf("framebuffer: unsupported display mode %s", mode)
	}
	return nil
}

// CreateSurface maps the framebuffer memory and activates the mode.
func (d *Device) CreateSurface() (*Surface, error) {
	if d.state != stateOpened {
		return nil, fmt.Errorf("%w: can't create surface, framebuffer is %s", video.ErrState, d.state)
	}

	pageMask := d.dev.pageSize() - 1
	d.memOffset = int(d.fix.SmemStart) & pageMask
	d.log.Debug("create surface", "page_mask", pageMask, "mem_offset", d.memOffset)

	if d.fix.SmemLen < 1 || d.fix.SmemStart < 1 {
		d.log.Warn("framebuffer reports no memory, mapping will probably fail",
			"smem_start", d.fix.SmemStart, "smem_len", d.fix.SmemLen)
	}

	mem, err := d.dev.mmap(int(d.fix.SmemLen) + d.memOffset)
	if err != nil {
		d.log.Error("could not map framebuffer", "err", err)
		return nil, fmt.Errorf("%w: %s: %w", video.ErrMap, d.path, err)
	}
	d.mem = mem
	d.state = stateMapped

	// Move the viewport to the upper left corner.
	if d.vinfo.Xoffset != 0 || d.vinfo.Yoffset != 0 {
		d.vinfo.Xoffset, d.vinfo.Yoffset = 0, 0
		if err = d.dev.ioctl(fbioPanDisplay, unsafe.Pointer(&d.vinfo)); err != nil {
			d.log.Error("could not pan display", "err", err)
			_ = d.DestroySurface()
			return nil, fmt.Errorf("framebuffer: FBIOPAN_DISPLAY: %w", err)
		}
	}

	d.vinfo.Activate = fbActivateNow | fbActivateAll | fbActivateForce
	if err = d.dev.ioctl(fbioPutVScreenInfo, unsafe.Pointer(&d.vinfo)); err != nil {
		d.log.Warn("could not activate mode", "request", "FBIOPUT_VSCREENINFO", "err", err)
	} else {
		d.log.Info("surface created", "mode", d.mode)
	}

	if d.backlight != nil {
		if err = d.backlight.Out(gpio.High); err != nil {
			d.log.Warn("could not enable backlight", "err", err)
		}
	}

	s := &Surface{
		Format: Format,
		Pix:    d.mem[d.memOffset:],
		Pitch:  int(d.fix.LineLength),
		Rect:   image.Rect(0, 0, d.mode.Width, d.mode.Height),
	}
	if s.Pitch > 0 && len(s.Pix)/s.Pitch < s.Rect.Max.Y {
		// Never hand out rows that are not backed by the mapping.
		s.Rect.Max.Y = len(s.Pix) / s.Pitch
	}
	return s, nil
}

// UpdateSurface latches the surface memory to the display. The caller has
// already drawn into the mapped memory; the damaged rectangles are clipped to
// the surface only to report what changed. A failed commit is logged and the
// frame is dropped.
func (d *Device) UpdateSurface(rects []image.Rectangle) error {
	if d.state != stateMapped {
		return fmt.Errorf("%w: can't update surface, framebuffer is %s", video.ErrState, d.state)
	}

	var (
		bounds  = image.Rect(0, 0, d.mode.Width, d.mode.Height)
		damaged int
	)
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		if r = r.Intersect(bounds); r.Empty() {
			continue
		}
		damaged++
	}
	d.log.Debug("update surface", "rects", len(rects), "damaged", damaged)

	d.commit()
	return nil
}

func (d *Device) commit() {
	request := mdpDisplayCommit{Flags: mdpDisplayCommitOverlay}
	if err := d.dev.ioctl(msmfbDisplayCommit, unsafe.Pointer(&request)); err != nil {
		d.log.Warn("display commit failed", "request", "MSMFB_DISPLAY_COMMIT", "err", fmt.Errorf("%w: %w", video.ErrCommit, err))
	}
}

// DestroySurface unmaps the framebuffer memory. It is a no-op without a surface.
func (d *Device) DestroySurface() error {
	if d.state != stateMapped {
		return nil
	}

	err := d.dev.munmap(d.mem)
	d.mem = nil
	d.memOffset = 0
	d.state = stateOpened
	if err != nil {
		d.log.Warn("could not unmap framebuffer", "err", err)
		return fmt.Errorf("framebuffer: munmap: %w", err)
	}
	d.log.Debug("unmapped framebuffer memory")
	return nil
}

// Close releases the surface, restores the original mode and closes the device.
// Failing to restore the mode is logged, closing always completes.
func (d *Device) Close() error {
	if d.state == stateClosed {
		return fmt.Errorf("%w: framebuffer is already closed", video.ErrState)
	}

	_ = d.DestroySurface()

	if !d.restored {
		if err := d.dev.ioctl(fbioPutVScreenInfo, unsafe.Pointer(&d.orig)); err != nil {
			d.log.Error("could not restore original mode", "request", "FBIOPUT_VSCREENINFO", "err", err)
		}
		d.restored = true
	}

	if d.backlight != nil {
		if err := d.backlight.Out(gpio.Low); err != nil {
			d.log.Warn("could not disable backlight", "err", err)
		}
	}

	d.state = stateClosed
	return d.dev.Close()
}
