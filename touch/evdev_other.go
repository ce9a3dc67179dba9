//go:build !linux

package touch

import "errors"

// Evdev is a Linux event device; it is not available on this platform.
type Evdev struct{}

// OpenEvdev always fails on this platform.
func OpenEvdev(path string) (*Evdev, error) {
	return nil, errors.New("touch: event devices are only supported on linux")
}

func (d *Evdev) Read() ([]RawEvent, error) {
	return nil, nil
}

func (d *Evdev) Close() error {
	return nil
}
