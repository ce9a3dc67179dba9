package framebuffer

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"unsafe"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/BeatGlow/video"
	"github.com/BeatGlow/video/internal/ioctl"
	"github.com/BeatGlow/video/pixel"
)

type fakeDevice struct {
	fix     fixScreenInfo
	vinfo   varScreenInfo
	page    int
	fail    map[ioctl.Command]error
	mmapErr error

	mem     []byte
	maps    int
	unmaps  int
	closed  int
	puts    []varScreenInfo
	pans    []varScreenInfo
	commits []mdpDisplayCommit
}

func newFakeDevice() *fakeDevice {
	f := &fakeDevice{
		page: 4096,
		fail: make(map[ioctl.Command]error),
	}
	copy(f.fix.ID[:], "mdssfb_80000")
	f.fix.SmemStart = 0x80000100
	f.fix.SmemLen = 640 * 4 * 480
	f.fix.Type = fbTypePackedPixels
	f.fix.Visual = fbVisualTrueColor
	f.fix.LineLength = 640 * 4
	f.vinfo.Xres = 640
	f.vinfo.Yres = 480
	f.vinfo.BitsPerPixel = 32
	f.vinfo.Red = pixel.Bitfield{Offset: 0, Length: 8}
	f.vinfo.Green = pixel.Bitfield{Offset: 8, Length: 8}
	f.vinfo.Blue = pixel.Bitfield{Offset: 16, Length: 8}
	f.vinfo.Alpha = pixel.Bitfield{Offset: 24, Length: 8}
	return f
}

func (f *fakeDevice) ioctl(cmd ioctl.Command, arg unsafe.Pointer) error {
	switch cmd {
	case fbioPutVScreenInfo:
		f.puts = append(f.puts, *(*varScreenInfo)(arg))
	case fbioPanDisplay:
		f.pans = append(f.pans, *(*varScreenInfo)(arg))
	case msmfbDisplayCommit:
		f.commits = append(f.commits, *(*mdpDisplayCommit)(arg))
	}
	if err := f.fail[cmd]; err != nil {
		return err
	}
	switch cmd {
	case fbioGetFScreenInfo:
		*(*fixScreenInfo)(arg) = f.fix
	case fbioGetVScreenInfo:
		*(*varScreenInfo)(arg) = f.vinfo
	}
	return nil
}

func (f *fakeDevice) mmap(length int) ([]byte, error) {
	if f.mmapErr != nil {
		return nil, f.mmapErr
	}
	f.maps++
	f.mem = make([]byte, length)
	return f.mem, nil
}

func (f *fakeDevice) munmap(b []byte) error {
	f.unmaps++
	return nil
}

func (f *fakeDevice) pageSize() int {
	return f.page
}

func (f *fakeDevice) Close() error {
	f.closed++
	return nil
}

func testOpen(t *testing.T, f *fakeDevice, config *Config) *Device {
	t.Helper()
	if config == nil {
		config = &Config{}
	}
	d, err := open(f, "/dev/fb0", config)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return d
}

func TestOpen(t *testing.T) {
	f := newFakeDevice()
	f.vinfo.Xoffset = 8
	d := testOpen(t, f, nil)

	if v := d.Name(); v != "mdssfb_80000" {
		t.Errorf("expected name %q, got %q", "mdssfb_80000", v)
	}

	modes := d.Modes()
	if len(modes) != 1 {
		t.Fatalf("expected 1 mode, got %d", len(modes))
	}
	want := video.DisplayMode{Format: pixel.ABGR8888, Width: 640, Height: 480, RefreshRate: 60}
	if modes[0] != want {
		t.Errorf("expected mode %s, got %s", want, modes[0])
	}
	if d.orig != f.vinfo {
		t.Errorf("expected original mode info to be saved")
	}

	if err := d.SetDisplayMode(want); err != nil {
		t.Errorf("expected published mode to be accepted, got %v", err)
	}
	other := want
	other.Width = 320
	if err := d.SetDisplayMode(other); err == nil {
		t.Errorf("expected mode %s to be rejected", other)
	}
}

func TestOpenRejects(t *testing.T) {
	tests := []struct {
		Name   string
		Modify func(*fakeDevice)
	}{
		{"planar", func(f *fakeDevice) { f.fix.Type = 1 }},
		{"pseudocolor", func(f *fakeDevice) { f.fix.Visual = 3 }},
		{"fscreeninfo", func(f *fakeDevice) { f.fail[fbioGetFScreenInfo] = errors.New("EINVAL") }},
		{"vscreeninfo", func(f *fakeDevice) { f.fail[fbioGetVScreenInfo] = errors.New("EINVAL") }},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			f := newFakeDevice()
			test.Modify(f)
			d, err := open(f, "/dev/fb0", &Config{})
			if !errors.Is(err, video.ErrInit) {
				it.Fatalf("expected ErrInit, got %v", err)
			}
			if d != nil {
				it.Errorf("expected no device, got %s", d)
			}
			if f.closed != 1 {
				it.Errorf("expected device to be closed once, got %d", f.closed)
			}
		})
	}
}

func TestSurfaceLifecycle(t *testing.T) {
	var (
		f  = newFakeDevice()
		bl = &gpiotest.Pin{N: "BL", L: gpio.Low}
	)
	f.vinfo.Yoffset = 480
	d := testOpen(t, f, &Config{Backlight: bl})

	s, err := d.CreateSurface()
	if err != nil {
		t.Fatalf("create surface failed: %v", err)
	}
	if v := len(f.mem); v != int(f.fix.SmemLen)+0x100 {
		t.Errorf("expected mapping of smem_len plus page offset (%d), got %d", int(f.fix.SmemLen)+0x100, v)
	}
	if v := len(s.Pix); v != int(f.fix.SmemLen) {
		t.Errorf("expected %d surface bytes, got %d", f.fix.SmemLen, v)
	}
	if s.Pitch != 640*4 || s.Format != pixel.ABGR8888 || s.Rect != image.Rect(0, 0, 640, 480) {
		t.Errorf("unexpected surface pitch=%d format=%s rect=%s", s.Pitch, s.Format, s.Rect)
	}
	if len(f.pans) != 1 || f.pans[0].Xoffset != 0 || f.pans[0].Yoffset != 0 {
		t.Errorf("expected one pan to the origin, got %+v", f.pans)
	}
	if len(f.puts) != 1 || f.puts[0].Activate != fbActivateNow|fbActivateAll|fbActivateForce {
		t.Errorf("expected one forced activation, got %+v", f.puts)
	}
	if bl.L != gpio.High {
		t.Errorf("expected backlight on")
	}

	s.Image().Set(1, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	if v := f.mem[0x100+4 : 0x100+8]; v[0] != 0x11 || v[1] != 0x22 || v[2] != 0x33 || v[3] != 0xff {
		t.Errorf("expected pixel to land in mapped memory after the page offset, got % x", v)
	}

	if err = d.UpdateSurface([]image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(-20, -20, -10, -10),
		image.Rect(630, 470, 700, 500),
	}); err != nil {
		t.Fatalf("update surface failed: %v", err)
	}
	if len(f.commits) != 1 {
		t.Fatalf("expected one commit per update, got %d", len(f.commits))
	}
	if f.commits[0].Flags != mdpDisplayCommitOverlay || f.commits[0].WaitForFinish != 0 {
		t.Errorf("expected overlay commit, got %+v", f.commits[0])
	}
	if err = d.UpdateSurface(nil); err != nil {
		t.Fatalf("update without damage failed: %v", err)
	}
	if len(f.commits) != 2 {
		t.Errorf("expected a commit even without damage, got %d", len(f.commits))
	}

	for i := 0; i < 2; i++ {
		if err = d.DestroySurface(); err != nil {
			t.Fatalf("destroy surface %d failed: %v", i, err)
		}
	}
	if f.unmaps != 1 {
		t.Errorf("expected one unmap, got %d", f.unmaps)
	}

	if err = d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if len(f.puts) != 2 || f.puts[1] != d.orig {
		t.Errorf("expected original mode to be restored, got %+v", f.puts)
	}
	if bl.L != gpio.Low {
		t.Errorf("expected backlight off")
	}
	if err = d.Close(); !errors.Is(err, video.ErrState) {
		t.Errorf("expected ErrState on second close, got %v", err)
	}
	if len(f.puts) != 2 || f.closed != 1 {
		t.Errorf("expected mode restore and close exactly once, got %d restores, %d closes", len(f.puts)-1, f.closed)
	}
}

func TestUpdateSurfaceCommitFailure(t *testing.T) {
	f := newFakeDevice()
	f.fail[msmfbDisplayCommit] = errors.New("EIO")
	d := testOpen(t, f, nil)
	if _, err := d.CreateSurface(); err != nil {
		t.Fatalf("create surface failed: %v", err)
	}
	if err := d.UpdateSurface([]image.Rectangle{image.Rect(0, 0, 1, 1)}); err != nil {
		t.Errorf("expected commit failure to be swallowed, got %v", err)
	}
	if len(f.commits) != 1 {
		t.Errorf("expected one commit attempt, got %d", len(f.commits))
	}
}

func TestCreateSurfaceFailures(t *testing.T) {
	t.Run("mmap", func(it *testing.T) {
		f := newFakeDevice()
		f.mmapErr = errors.New("ENOMEM")
		d := testOpen(it, f, nil)
		if _, err := d.CreateSurface(); !errors.Is(err, video.ErrMap) {
			it.Fatalf("expected ErrMap, got %v", err)
		}
		if v := d.Modes(); len(v) != 1 {
			it.Errorf("expected modes to remain available, got %v", v)
		}
		if err := d.UpdateSurface(nil); !errors.Is(err, video.ErrState) {
			it.Errorf("expected ErrState updating without surface, got %v", err)
		}
		if err := d.Close(); err != nil {
			it.Errorf("close failed: %v", err)
		}
	})

	t.Run("pan", func(it *testing.T) {
		f := newFakeDevice()
		f.vinfo.Xoffset = 1
		f.fail[fbioPanDisplay] = errors.New("EINVAL")
		d := testOpen(it, f, nil)
		if _, err := d.CreateSurface(); err == nil {
			it.Fatal("expected pan failure")
		}
		if f.unmaps != 1 {
			it.Errorf("expected mapping to be released, got %d unmaps", f.unmaps)
		}
		if d.state != stateOpened {
			it.Errorf("expected device to be opened, got %s", d.state)
		}
	})

	t.Run("activate", func(it *testing.T) {
		f := newFakeDevice()
		f.fail[fbioPutVScreenInfo] = errors.New("EINVAL")
		d := testOpen(it, f, nil)
		if _, err := d.CreateSurface(); err != nil {
			it.Errorf("expected activation failure to be tolerated, got %v", err)
		}
		if err := d.Close(); err != nil {
			it.Errorf("expected restore failure to be tolerated, got %v", err)
		}
		if f.closed != 1 {
			it.Errorf("expected device to be closed, got %d", f.closed)
		}
	})
}

func TestStateTransitions(t *testing.T) {
	d := testOpen(t, newFakeDevice(), nil)
	if err := d.UpdateSurface(nil); !errors.Is(err, video.ErrState) {
		t.Errorf("expected ErrState for update before create, got %v", err)
	}
	if _, err := d.CreateSurface(); err != nil {
		t.Fatalf("create surface failed: %v", err)
	}
	if _, err := d.CreateSurface(); !errors.Is(err, video.ErrState) {
		t.Errorf("expected ErrState for second create, got %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := d.CreateSurface(); !errors.Is(err, video.ErrState) {
		t.Errorf("expected ErrState for create after close, got %v", err)
	}
	if err := d.DestroySurface(); err != nil {
		t.Errorf("expected destroy after close to be a no-op, got %v", err)
	}
}

func TestSurfaceShortMapping(t *testing.T) {
	f := newFakeDevice()
	f.fix.SmemLen = 640 * 4 * 100
	f.fix.SmemStart = 0x80000000
	d := testOpen(t, f, nil)
	s, err := d.CreateSurface()
	if err != nil {
		t.Fatalf("create surface failed: %v", err)
	}
	if v := s.Rect.Dy(); v != 100 {
		t.Errorf("expected surface clipped to 100 mapped rows, got %d", v)
	}
}

func TestDevicePath(t *testing.T) {
	t.Setenv(EnvDevice, "")
	if v := devicePath(&Config{}); v != DefaultDevice {
		t.Errorf("expected %q, got %q", DefaultDevice, v)
	}
	if v := devicePath(&Config{Device: "/dev/fb1"}); v != "/dev/fb1" {
		t.Errorf("expected %q, got %q", "/dev/fb1", v)
	}
	t.Setenv(EnvDevice, "/dev/graphics/fb0")
	if v := devicePath(&Config{Device: "/dev/fb1"}); v != "/dev/graphics/fb0" {
		t.Errorf("expected environment to win, got %q", v)
	}
}
