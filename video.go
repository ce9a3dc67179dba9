// Package video contains the portable pieces shared by the platform video
// backends: the canonical event model, the [Sink] the backends produce into,
// scancodes, display modes and the error taxonomy.
//
// The backends themselves live in subpackages: [github.com/BeatGlow/video/framebuffer]
// drives a Linux framebuffer device and [github.com/BeatGlow/video/x11] pumps
// and translates X11 window system events.
package video

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BeatGlow/video/pixel"
)

// EnvDebug enables debug level logging in the command line tools when set.
const EnvDebug = "VIDEO_DEBUG"

var debug bool

func init() {
	debug = os.Getenv(EnvDebug) != ""
}

// Debug reports if debugging was requested through the environment.
func Debug() bool {
	return debug
}

// Errors
var (
	// ErrInit is returned when a backend could not be brought up; the backend is unusable.
	ErrInit = errors.New("video: initialization failed")

	// ErrMap is returned when surface memory could not be mapped. The backend
	// remains usable for mode queries.
	ErrMap = errors.New("video: surface mapping failed")

	// ErrCommit marks a failed hardware display commit. It is logged, never returned.
	ErrCommit = errors.New("video: display commit failed")

	// ErrState is returned for an operation that is illegal in the current driver state.
	ErrState = errors.New("video: invalid state")
)

// WindowID is the portable handle of a library window. Zero means no window.
type WindowID uint32

// DisplayMode describes a display resolution, refresh rate and pixel format.
type DisplayMode struct {
	Format      pixel.Format
	Width       int
	Height      int
	RefreshRate int
}

func (m DisplayMode) String() string {
	return fmt.Sprintf("%dx%d@%dHz %s", m.Width, m.Height, m.RefreshRate, m.Format)
}

// DiscardLogger returns a logger that drops all records.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LoggerOrDiscard returns l, or a discarding logger if l is nil.
func LoggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return DiscardLogger()
	}
	return l
}
