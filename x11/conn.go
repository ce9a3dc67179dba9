package x11

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/BeatGlow/video"
)

// Conn is a [Display] over an xgb connection. Events are moved from the
// connection into a local queue, so pending checks and lookahead never block.
type Conn struct {
	conn  *xgb.Conn
	setup *xproto.SetupInfo
	root  xproto.Window
	atoms Atoms
	queue []xgb.Event
	log   *slog.Logger
}

// Dial connects to the X server. An empty display uses $DISPLAY.
func Dial(display string, logger *slog.Logger) (*Conn, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("%w: x11: %w", video.ErrInit, err)
	}

	c := &Conn{
		conn:  conn,
		setup: xproto.Setup(conn),
		log:   video.LoggerOrDiscard(logger).With("driver", "x11"),
	}
	c.root = c.setup.DefaultScreen(conn).Root

	if err = c.internAtoms(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: x11: %w", video.ErrInit, err)
	}
	c.log.Debug("connected", "vendor", c.setup.Vendor, "root", c.root)
	return c, nil
}

func (c *Conn) internAtoms() error {
	// Send all requests before waiting for the first reply.
	cookies := make([]xproto.InternAtomCookie, len(atomNames))
	for i, name := range atomNames {
		cookies[i] = xproto.InternAtom(c.conn, false, uint16(len(name)), name)
	}
	for i, field := range c.atoms.fields() {
		reply, err := cookies[i].Reply()
		if err != nil {
			return fmt.Errorf("intern atom %s: %w", atomNames[i], err)
		}
		*field = reply.Atom
	}
	return nil
}

// X returns the underlying connection.
func (c *Conn) X() *xgb.Conn {
	return c.conn
}

// Screen returns the default screen.
func (c *Conn) Screen() *xproto.ScreenInfo {
	return c.setup.DefaultScreen(c.conn)
}

// Close closes the connection.
func (c *Conn) Close() error {
	c.conn.Close()
	c.queue = nil
	return nil
}

// fill moves everything the connection has read so far into the local queue.
func (c *Conn) fill() {
	for {
		ev, err := c.conn.PollForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			// Request errors are protocol anomalies, never surfaced.
			c.log.Debug("protocol error", "err", err)
			continue
		}
		c.queue = append(c.queue, ev)
	}
}

func (c *Conn) Pending() bool {
	if len(c.queue) > 0 {
		return true
	}
	c.fill()
	return len(c.queue) > 0
}

func (c *Conn) Next() xgb.Event {
	if !c.Pending() {
		return nil
	}
	ev := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return ev
}

func (c *Conn) Peek() xgb.Event {
	if !c.Pending() {
		return nil
	}
	return c.queue[0]
}

func (c *Conn) Root() xproto.Window {
	return c.root
}

func (c *Conn) Atoms() Atoms {
	return c.atoms
}

func (c *Conn) SendEvent(dest xproto.Window, mask uint32, ev xgb.Event) error {
	return xproto.SendEventChecked(c.conn, false, dest, mask, string(ev.Bytes())).Check()
}

func (c *Conn) GetProperty(win xproto.Window, prop, typ xproto.Atom) (*xproto.GetPropertyReply, error) {
	return xproto.GetProperty(c.conn, false, win, prop, typ, 0, math.MaxInt32/4).Reply()
}

func (c *Conn) ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, count uint32, data []byte) error {
	return xproto.ChangePropertyChecked(c.conn, xproto.PropModeReplace, win, prop, typ, format, count, data).Check()
}

func (c *Conn) Sync() error {
	_, err := xproto.GetInputFocus(c.conn).Reply()
	return err
}

func (c *Conn) ResetScreenSaver() error {
	return xproto.ForceScreenSaverChecked(c.conn, xproto.ScreenSaverReset).Check()
}

// KeyboardMapping returns the keysyms of all keycodes, starting at first.
func (c *Conn) KeyboardMapping() (first xproto.Keycode, perKeycode int, keysyms []xproto.Keysym, err error) {
	first = c.setup.MinKeycode
	count := byte(c.setup.MaxKeycode - first + 1)
	reply, err := xproto.GetKeyboardMapping(c.conn, first, count).Reply()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("x11: keyboard mapping: %w", err)
	}
	return first, int(reply.KeysymsPerKeycode), reply.Keysyms, nil
}

// Interface checks.
var (
	_ Display        = (*Conn)(nil)
	_ KeyboardMapper = (*Conn)(nil)
)
