//go:build !linux

package framebuffer

// Open is not supported on this platform and returns [ErrNotSupported].
func Open(_ *Config) (*Device, error) {
	return nil, ErrNotSupported
}
