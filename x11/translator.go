package x11

import (
	"log/slog"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/BeatGlow/video"
)

// Translator turns native events into canonical events on a [video.Sink].
type Translator struct {
	display Display
	atoms   Atoms
	keys    KeyLayout
	windows *Registry
	sink    video.Sink
	im      InputMethod
	log     *slog.Logger
	trace   bool
	now     func() time.Time

	focusInDelay  time.Duration
	focusOutDelay time.Duration

	suspendScreenSaver  bool
	screenSaverInterval time.Duration
	screenSaverActivity time.Time

	touch         []TouchDevice
	touchInterval time.Duration
	touchActivity time.Time
	multitouch    bool

	selectionWaiting bool
}

// NewTranslator returns a translator for the windows in the registry. A nil
// config uses [DefaultConfig].
func NewTranslator(display Display, keys KeyLayout, windows *Registry, sink video.Sink, config *Config) *Translator {
	if config == nil {
		config = &DefaultConfig
	}
	t := &Translator{
		display:             display,
		atoms:               display.Atoms(),
		keys:                keys,
		windows:             windows,
		sink:                sink,
		im:                  config.InputMethod,
		log:                 video.LoggerOrDiscard(config.Logger).With("driver", "x11"),
		trace:               config.Trace,
		now:                 config.Now,
		focusInDelay:        config.FocusInDelay,
		focusOutDelay:       config.FocusOutDelay,
		suspendScreenSaver:  config.SuspendScreenSaver,
		screenSaverInterval: config.ScreenSaverInterval,
		touchInterval:       config.TouchInterval,
		multitouch:          config.Multitouch,
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.screenSaverInterval <= 0 {
		t.screenSaverInterval = DefaultConfig.ScreenSaverInterval
	}
	return t
}

// ExpectSelection marks a selection request as in flight; the next
// SelectionNotify clears it.
func (t *Translator) ExpectSelection() {
	t.selectionWaiting = true
}

// SelectionWaiting reports if a selection request is in flight.
func (t *Translator) SelectionWaiting() bool {
	return t.selectionWaiting
}

// eventWindow returns the window an event is reported for.
func eventWindow(ev xgb.Event) (xproto.Window, bool) {
	switch e := ev.(type) {
	case xproto.EnterNotifyEvent:
		return e.Event, true
	case xproto.LeaveNotifyEvent:
		return e.Event, true
	case xproto.FocusInEvent:
		return e.Event, true
	case xproto.FocusOutEvent:
		return e.Event, true
	case xproto.KeyPressEvent:
		return e.Event, true
	case xproto.KeyReleaseEvent:
		return e.Event, true
	case xproto.ButtonPressEvent:
		return e.Event, true
	case xproto.ButtonReleaseEvent:
		return e.Event, true
	case xproto.MotionNotifyEvent:
		return e.Event, true
	case xproto.MapNotifyEvent:
		return e.Event, true
	case xproto.UnmapNotifyEvent:
		return e.Event, true
	case xproto.ConfigureNotifyEvent:
		return e.Event, true
	case xproto.ClientMessageEvent:
		return e.Window, true
	case xproto.ExposeEvent:
		return e.Window, true
	case xproto.PropertyNotifyEvent:
		return e.Window, true
	case xproto.SelectionRequestEvent:
		return e.Owner, true
	case xproto.SelectionNotifyEvent:
		return e.Requestor, true
	default:
		return 0, false
	}
}

func (t *Translator) tracef(w *Window, msg string, args ...any) {
	if !t.trace {
		return
	}
	if w != nil {
		args = append(args, "window", w.ID)
	}
	t.log.Debug(msg, args...)
}

// DispatchOne takes one event from the display and translates it.
func (t *Translator) DispatchOne() {
	ev := t.display.Next()
	if ev == nil {
		return
	}

	if t.im != nil && t.im.Filter(ev) {
		t.tracef(nil, "filtered event", "event", ev)
		return
	}

	if t.sink.SysWMEnabled() {
		t.sink.SendSysWMEvent(ev)
	}

	// Mapping changes are not reported for a window.
	if _, ok := ev.(xproto.MappingNotifyEvent); ok {
		t.tracef(nil, "mapping notify")
		if err := t.keys.Update(); err != nil {
			t.log.Warn("could not update keymap", "err", err)
		}
		return
	}

	handle, ok := eventWindow(ev)
	if !ok {
		t.tracef(nil, "unhandled event", "event", ev)
		return
	}
	w := t.windows.Lookup(handle)
	if w == nil {
		t.tracef(nil, "event for unknown window", "handle", handle, "event", ev)
		return
	}

	switch e := ev.(type) {
	case xproto.EnterNotifyEvent:
		t.tracef(w, "enter notify", "x", e.EventX, "y", e.EventY, "mode", e.Mode)
		t.sink.SetMouseFocus(w.ID)

	case xproto.LeaveNotifyEvent:
		t.tracef(w, "leave notify", "x", e.EventX, "y", e.EventY, "mode", e.Mode)
		if e.Mode != xproto.NotifyModeGrab &&
			e.Mode != xproto.NotifyModeUngrab &&
			e.Detail != xproto.NotifyDetailInferior {
			t.sink.SetMouseFocus(0)
		}

	case xproto.FocusInEvent:
		if e.Detail == xproto.NotifyDetailInferior {
			t.tracef(w, "focus in from inferior, ignoring")
			return
		}
		t.tracef(w, "focus in")
		if w.pending == FocusOut && w.ID == t.sink.KeyboardFocus() {
			// Key events may have been missed since the focus out.
			t.sink.ResetKeyboard()
		}
		w.setPendingFocus(FocusIn, t.now().Add(t.focusInDelay))

	case xproto.FocusOutEvent:
		if e.Detail == xproto.NotifyDetailInferior {
			// Still focused when a child gets the focus.
			t.tracef(w, "focus out to inferior, ignoring")
			return
		}
		t.tracef(w, "focus out")
		w.setPendingFocus(FocusOut, t.now().Add(t.focusOutDelay))

	case xproto.KeyPressEvent:
		t.keyPress(w, e)

	case xproto.KeyReleaseEvent:
		t.tracef(w, "key release", "keycode", e.Detail)
		if isRepeat(t.display, e) {
			return
		}
		t.sink.SendKeyboardKey(video.Released, t.keys.Scancode(e.Detail))

	case xproto.UnmapNotifyEvent:
		t.tracef(w, "unmap notify")
		t.hide(w)

	case xproto.MapNotifyEvent:
		t.tracef(w, "map notify")
		t.show(w)

	case xproto.ConfigureNotifyEvent:
		t.tracef(w, "configure notify", "x", e.X, "y", e.Y, "width", e.Width, "height", e.Height)
		if e.X != w.x || e.Y != w.y {
			t.sink.SendWindowEvent(w.ID, video.WindowMoved, int(e.X), int(e.Y))
		}
		if e.Width != w.width || e.Height != w.height {
			t.sink.SendWindowEvent(w.ID, video.WindowResized, int(e.Width), int(e.Height))
		}
		w.x, w.y, w.width, w.height = e.X, e.Y, e.Width, e.Height

	case xproto.ClientMessageEvent:
		t.clientMessage(w, e)

	case xproto.ExposeEvent:
		t.tracef(w, "expose", "count", e.Count)
		t.sink.SendWindowEvent(w.ID, video.WindowExposed, 0, 0)

	case xproto.MotionNotifyEvent:
		// Relative motion is delivered through raw input.
		if !t.sink.RelativeMode() {
			t.sink.SendMouseMotion(w.ID, false, int(e.EventX), int(e.EventY))
		}

	case xproto.ButtonPressEvent:
		t.tracef(w, "button press", "button", e.Detail, "time", e.Time)
		if wheel, ticks := isWheel(t.display, e); wheel {
			t.sink.SendMouseWheel(w.ID, 0, ticks)
		} else {
			t.sink.SendMouseButton(w.ID, video.Pressed, uint8(e.Detail))
		}

	case xproto.ButtonReleaseEvent:
		t.tracef(w, "button release", "button", e.Detail, "time", e.Time)
		t.sink.SendMouseButton(w.ID, video.Released, uint8(e.Detail))

	case xproto.PropertyNotifyEvent:
		t.tracef(w, "property notify", "atom", e.Atom, "state", e.State)
		if e.Atom == t.atoms.NetWMState {
			t.netWMState(w)
		}

	case xproto.SelectionRequestEvent:
		t.selectionRequest(w, e)

	case xproto.SelectionNotifyEvent:
		t.tracef(w, "selection notify", "requestor", e.Requestor, "target", e.Target)
		t.selectionWaiting = false
	}
}

func (t *Translator) keyPress(w *Window, e xproto.KeyPressEvent) {
	t.tracef(w, "key press", "keycode", e.Detail)

	code := t.keys.Scancode(e.Detail)
	t.sink.SendKeyboardKey(video.Pressed, code)
	if code == video.ScancodeUnknown {
		sym := t.keys.Keysym(e.Detail, 0)
		t.log.Warn("unrecognized key", "keycode", e.Detail, "keysym", sym)
	}

	if w.IC == nil {
		return
	}
	if text := w.IC.LookupString(e); text != "" {
		t.sink.SendKeyboardText(text)
	}
}

func (t *Translator) show(w *Window) {
	w.Hidden = false
	t.sink.SendWindowEvent(w.ID, video.WindowShown, 0, 0)
	t.sink.SendWindowEvent(w.ID, video.WindowRestored, 0, 0)
}

func (t *Translator) hide(w *Window) {
	w.Hidden = true
	t.sink.SendWindowEvent(w.ID, video.WindowHidden, 0, 0)
	t.sink.SendWindowEvent(w.ID, video.WindowMinimized, 0, 0)
}

func (t *Translator) clientMessage(w *Window, e xproto.ClientMessageEvent) {
	if e.Type != t.atoms.WMProtocols || e.Format != 32 || len(e.Data.Data32) == 0 {
		t.tracef(w, "client message ignored", "type", e.Type, "format", e.Format)
		return
	}

	switch xproto.Atom(e.Data.Data32[0]) {
	case t.atoms.NetWMPing:
		t.tracef(w, "ping")
		root := t.display.Root()
		e.Window = root
		mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
		if err := t.display.SendEvent(root, mask, e); err != nil {
			t.log.Debug("could not answer ping", "err", err)
		}

	case t.atoms.WMDeleteWindow:
		t.tracef(w, "delete window")
		t.sink.SendWindowEvent(w.ID, video.WindowClose, 0, 0)
	}
}

// netWMState follows visibility changes made by compositing window managers,
// which may hide a window without unmapping it.
func (t *Translator) netWMState(w *Window) {
	reply, err := t.display.GetProperty(w.Handle, t.atoms.NetWMState, xproto.AtomAtom)
	if err != nil {
		t.tracef(w, "could not read window state", "err", err)
		return
	}

	var hidden bool
	if reply.Format == 32 {
		for i := 0; i+4 <= len(reply.Value); i += 4 {
			if xproto.Atom(xgb.Get32(reply.Value[i:])) == t.atoms.NetWMStateHidden {
				hidden = true
				break
			}
		}
	}

	if hidden == w.Hidden {
		return
	}
	if hidden {
		t.hide(w)
	} else {
		t.show(w)
	}
}

// selectionRequest answers a request for our selection with the contents of
// CUT_BUFFER0 on the root window.
func (t *Translator) selectionRequest(w *Window, req xproto.SelectionRequestEvent) {
	t.tracef(w, "selection request", "requestor", req.Requestor, "target", req.Target)

	notify := xproto.SelectionNotifyEvent{
		Time:      req.Time,
		Requestor: req.Requestor,
		Selection: req.Selection,
		Target:    xproto.AtomNone,
		Property:  xproto.AtomNone,
	}

	reply, err := t.display.GetProperty(t.display.Root(), xproto.AtomCutBuffer0, req.Target)
	if err == nil {
		notify.Target = reply.Type
		if reply.Type == req.Target {
			err = t.display.ChangeProperty(req.Requestor, req.Property, reply.Type, reply.Format, reply.ValueLen, reply.Value)
			if err == nil {
				notify.Property = req.Property
			}
		}
	}
	if err != nil {
		t.tracef(w, "could not copy selection", "err", err)
	}

	if err = t.display.SendEvent(req.Requestor, 0, notify); err != nil {
		t.log.Debug("could not notify selection requestor", "err", err)
	}
	if err = t.display.Sync(); err != nil {
		t.log.Debug("sync failed", "err", err)
	}
}
