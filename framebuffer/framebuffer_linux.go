package framebuffer

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/video"
	"github.com/BeatGlow/video/internal/ioctl"
)

// Open a Linux framebuffer device (fbdev). The device path comes from the
// [EnvDevice] environment variable, the config, or [DefaultDevice], in that
// order. A nil config uses [DefaultConfig].
func Open(config *Config) (*Device, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}

	path := devicePath(config)
	video.LoggerOrDiscard(config.Logger).Debug("trying framebuffer", "device", path)

	f, err := os.OpenFile(path, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", video.ErrInit, err)
	}
	return open(&fileDevice{f: f, fd: f.Fd()}, path, config)
}

type fileDevice struct {
	f  *os.File
	fd uintptr
}

func (d *fileDevice) ioctl(cmd ioctl.Command, arg unsafe.Pointer) error {
	return ioctl.Do(d.fd, cmd, arg)
}

func (d *fileDevice) mmap(length int) ([]byte, error) {
	return unix.Mmap(int(d.fd), 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func (d *fileDevice) munmap(b []byte) error {
	return unix.Munmap(b)
}

func (d *fileDevice) pageSize() int {
	return unix.Getpagesize()
}

func (d *fileDevice) Close() error {
	return d.f.Close()
}
