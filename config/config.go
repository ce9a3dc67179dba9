// Package config reads the TOML configuration of the command line tools.
//
// A configuration file looks like:
//
//	[framebuffer]
//	device = "/dev/fb0"
//	backlight = "GPIO18"
//	fps = 30
//
//	[x11]
//	display = ":0"
//	focus_in_delay = "100ms"
//	focus_out_delay = "200ms"
//	suspend_screensaver = true
//
//	[touch]
//	devices = ["/dev/input/event1"]
//	poll_interval = "10ms"
//
//	[log]
//	level = "debug"
//	trace = true
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BeatGlow/video"
	"github.com/BeatGlow/video/framebuffer"
	"github.com/BeatGlow/video/x11"
)

// Config is the configuration of the command line tools.
type Config struct {
	Framebuffer FramebufferConfig `toml:"framebuffer"`
	X11         X11Config         `toml:"x11"`
	Touch       TouchConfig       `toml:"touch"`
	Log         LogConfig         `toml:"log"`
}

// FramebufferConfig configures the framebuffer driver.
type FramebufferConfig struct {
	// Device path, the VIDEO_FBDEVICE environment variable takes precedence.
	Device string `toml:"device"`

	// Backlight is the name of the backlight GPIO, empty for none.
	Backlight string `toml:"backlight"`

	// FPS is the number of frames presented per second.
	FPS int `toml:"fps"`
}

// X11Config configures the X11 event pump.
type X11Config struct {
	Display            string   `toml:"display"`
	FocusInDelay       Duration `toml:"focus_in_delay"`
	FocusOutDelay      Duration `toml:"focus_out_delay"`
	SuspendScreenSaver bool     `toml:"suspend_screensaver"`
	ScreenSaverPeriod  Duration `toml:"screensaver_interval"`
	PumpInterval       Duration `toml:"pump_interval"`
	Compose            bool     `toml:"compose"`
	SysWM              bool     `toml:"syswm"`
}

// TouchConfig configures raw touch devices.
type TouchConfig struct {
	Devices      []string `toml:"devices"`
	PollInterval Duration `toml:"poll_interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`

	// Trace logs every native event.
	Trace bool `toml:"trace"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Framebuffer: FramebufferConfig{
			Device: framebuffer.DefaultConfig.Device,
			FPS:    framebuffer.RefreshRate,
		},
		X11: X11Config{
			FocusInDelay:      Duration{x11.DefaultConfig.FocusInDelay},
			FocusOutDelay:     Duration{x11.DefaultConfig.FocusOutDelay},
			ScreenSaverPeriod: Duration{x11.DefaultConfig.ScreenSaverInterval},
			PumpInterval:      Duration{10 * time.Millisecond},
			Compose:           true,
		},
		Touch: TouchConfig{
			PollInterval: Duration{10 * time.Millisecond},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path. An empty path or a missing file
// gives the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return applyEnv(Default()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default()), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads the configuration from r, on top of the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown key %s", undecoded[0])
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return applyEnv(c), nil
}

// applyEnv applies the debug environment switch.
func applyEnv(c *Config) *Config {
	if video.Debug() {
		c.Log.Level = "debug"
	}
	return c
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Framebuffer.FPS < 1 || c.Framebuffer.FPS > 240 {
		return fmt.Errorf("config: framebuffer fps %d out of range 1-240", c.Framebuffer.FPS)
	}
	if c.X11.PumpInterval.Duration <= 0 {
		return fmt.Errorf("config: x11 pump_interval must be positive, got %s", c.X11.PumpInterval.Duration)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// TranslatorConfig returns the X11 translator configuration.
func (c *Config) TranslatorConfig() x11.Config {
	config := x11.DefaultConfig
	config.FocusInDelay = c.X11.FocusInDelay.Duration
	config.FocusOutDelay = c.X11.FocusOutDelay.Duration
	config.SuspendScreenSaver = c.X11.SuspendScreenSaver
	if c.X11.ScreenSaverPeriod.Duration > 0 {
		config.ScreenSaverInterval = c.X11.ScreenSaverPeriod.Duration
	}
	config.TouchInterval = c.Touch.PollInterval.Duration
	config.Trace = c.Log.Trace
	return config
}
