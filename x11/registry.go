package x11

import (
	"fmt"
	"time"

	"github.com/jezek/xgb/xproto"

	"github.com/BeatGlow/video"
)

// PendingFocus is a focus change waiting for its deadline.
type PendingFocus uint8

// Pending focus changes.
const (
	FocusNone PendingFocus = iota
	FocusIn
	FocusOut
)

func (p PendingFocus) String() string {
	switch p {
	case FocusIn:
		return "in"
	case FocusOut:
		return "out"
	default:
		return "none"
	}
}

// Window is the state kept for an application window.
type Window struct {
	// Handle is the native window.
	Handle xproto.Window

	// ID is the portable window.
	ID video.WindowID

	// IC is the input context of the window, optional. It is closed when the
	// window is removed from the registry.
	IC InputContext

	// Hidden is the last visibility reported for the window.
	Hidden bool

	x, y          int16
	width, height uint16

	pending  PendingFocus
	deadline time.Time
}

// Geometry returns the last known position and size.
func (w *Window) Geometry() (x, y, width, height int) {
	return int(w.x), int(w.y), int(w.width), int(w.height)
}

// SetGeometry records the current position and size.
func (w *Window) SetGeometry(x, y, width, height int) {
	w.x, w.y = int16(x), int16(y)
	w.width, w.height = uint16(width), uint16(height)
}

// PendingFocus returns the pending focus change and its deadline.
func (w *Window) PendingFocus() (PendingFocus, time.Time) {
	return w.pending, w.deadline
}

func (w *Window) setPendingFocus(p PendingFocus, deadline time.Time) {
	w.pending, w.deadline = p, deadline
}

// Registry maps native window handles to application windows.
type Registry struct {
	windows map[xproto.Window]*Window
	order   []*Window
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{windows: make(map[xproto.Window]*Window)}
}

// Add registers a window.
func (r *Registry) Add(w *Window) error {
	if _, dupe := r.windows[w.Handle]; dupe {
		return fmt.Errorf("x11: window 0x%x already registered", uint32(w.Handle))
	}
	r.windows[w.Handle] = w
	r.order = append(r.order, w)
	return nil
}

// Remove unregisters a window and closes its input context.
func (r *Registry) Remove(handle xproto.Window) error {
	w, ok := r.windows[handle]
	if !ok {
		return nil
	}
	delete(r.windows, handle)
	for i, other := range r.order {
		if other == w {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if w.IC != nil {
		ic := w.IC
		w.IC = nil
		return ic.Close()
	}
	return nil
}

// Lookup returns the window for handle, or nil.
func (r *Registry) Lookup(handle xproto.Window) *Window {
	return r.windows[handle]
}

// Len returns the number of windows.
func (r *Registry) Len() int {
	return len(r.order)
}

// Each calls fn for every window in registration order.
func (r *Registry) Each(fn func(*Window)) {
	for _, w := range r.order {
		fn(w)
	}
}

// Close removes all windows.
func (r *Registry) Close() error {
	var first error
	for len(r.order) > 0 {
		if err := r.Remove(r.order[0].Handle); err != nil && first == nil {
			first = err
		}
	}
	return first
}
