package touch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// inputEventSize is sizeof(struct input_event): a struct timeval followed by
// type, code and value.
const inputEventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

// Evdev is a non-blocking [Source] reading a Linux event device.
type Evdev struct {
	path   string
	fd     int
	buf    []byte
	parser parser
}

// OpenEvdev opens an event device, e.g. /dev/input/event0.
func OpenEvdev(path string) (*Evdev, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("touch: open %s: %w", path, err)
	}
	return &Evdev{
		path:   path,
		fd:     fd,
		buf:    make([]byte, inputEventSize*64),
		parser: parser{size: inputEventSize, order: binary.NativeEndian},
	}, nil
}

func (d *Evdev) String() string {
	return d.path
}

// Read returns the events that can be read without blocking.
func (d *Evdev) Read() ([]RawEvent, error) {
	var events []RawEvent
	for {
		fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return events, fmt.Errorf("touch: poll %s: %w", d.path, err)
		}
		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			return events, nil
		}

		n, err = unix.Read(d.fd, d.buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return events, nil
		case err != nil:
			return events, fmt.Errorf("touch: read %s: %w", d.path, err)
		case n == 0:
			return events, nil
		}
		events = append(events, d.parser.feed(d.buf[:n])...)
		if n < len(d.buf) {
			return events, nil
		}
	}
}

// Close closes the device.
func (d *Evdev) Close() error {
	return unix.Close(d.fd)
}
