// Package x11 pumps X11 window system events and translates them into
// canonical [video.Event] values.
//
// The native side is reached through [Display], implemented over
// github.com/jezek/xgb by [Conn]. Windows that belong to the application are
// kept in a [Registry]; events for any other window are dropped.
//
// Everything in this package runs on the pump goroutine and is not safe for
// concurrent use.
package x11

import (
	"log/slog"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Source is a queue of native events.
type Source interface {
	// Pending reports if an event is queued. It never blocks.
	Pending() bool

	// Next removes and returns the oldest queued event, or nil.
	Next() xgb.Event

	// Peek returns the oldest queued event without removing it, or nil.
	Peek() xgb.Event
}

// Server are the requests the translator issues to the X server.
type Server interface {
	// Root is the root window of the default screen.
	Root() xproto.Window

	// Atoms are the interned protocol atoms.
	Atoms() Atoms

	// SendEvent delivers ev to dest.
	SendEvent(dest xproto.Window, mask uint32, ev xgb.Event) error

	// GetProperty reads the whole property of the given type.
	GetProperty(win xproto.Window, prop, typ xproto.Atom) (*xproto.GetPropertyReply, error)

	// ChangeProperty replaces a property.
	ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, count uint32, data []byte) error

	// Sync waits until the server processed all requests.
	Sync() error

	// ResetScreenSaver restarts the screen saver timeout.
	ResetScreenSaver() error
}

// Display is a connection to an X server.
type Display interface {
	Source
	Server
}

// Atoms used by the translator.
type Atoms struct {
	WMProtocols      xproto.Atom
	WMDeleteWindow   xproto.Atom
	NetWMPing        xproto.Atom
	NetWMState       xproto.Atom
	NetWMStateHidden xproto.Atom
}

// Atom names, in the order of the [Atoms] fields.
var atomNames = []string{
	"WM_PROTOCOLS",
	"WM_DELETE_WINDOW",
	"_NET_WM_PING",
	"_NET_WM_STATE",
	"_NET_WM_STATE_HIDDEN",
}

func (a *Atoms) fields() []*xproto.Atom {
	return []*xproto.Atom{
		&a.WMProtocols,
		&a.WMDeleteWindow,
		&a.NetWMPing,
		&a.NetWMState,
		&a.NetWMStateHidden,
	}
}

// Config is the configuration of a [Translator].
type Config struct {
	// FocusInDelay and FocusOutDelay debounce focus changes.
	FocusInDelay  time.Duration
	FocusOutDelay time.Duration

	// InputMethod filters events before they are translated. Optional.
	InputMethod InputMethod

	// SuspendScreenSaver resets the screen saver every ScreenSaverInterval.
	SuspendScreenSaver  bool
	ScreenSaverInterval time.Duration

	// TouchInterval rate limits polling of touch devices, zero polls on every pump.
	TouchInterval time.Duration

	// Multitouch reports that touch input arrives through the X server, raw
	// touch devices are not polled.
	Multitouch bool

	// Logger for diagnostics, nil discards.
	Logger *slog.Logger

	// Trace logs every native event at debug level.
	Trace bool

	// Now is the clock, defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	FocusInDelay:        100 * time.Millisecond,
	FocusOutDelay:       200 * time.Millisecond,
	ScreenSaverInterval: 30 * time.Second,
}
