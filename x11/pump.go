package x11

// TouchDevice is a raw touch device polled by the pump.
type TouchDevice interface {
	// Poll translates everything the device has reported so far. It never blocks.
	Poll() error
}

// AddTouch adds a raw touch device to poll.
func (t *Translator) AddTouch(dev TouchDevice) {
	t.touch = append(t.touch, dev)
}

// HandleFocusChanges dispatches pending focus changes whose deadline passed.
func (t *Translator) HandleFocusChanges() {
	now := t.now()
	t.windows.Each(func(w *Window) {
		if w.pending == FocusNone || now.Before(w.deadline) {
			return
		}
		if w.pending == FocusIn {
			t.tracef(w, "dispatching focus in")
			t.sink.SetKeyboardFocus(w.ID)
			if w.IC != nil {
				w.IC.SetFocus()
			}
		} else {
			t.tracef(w, "dispatching focus out")
			t.sink.SetKeyboardFocus(0)
			if w.IC != nil {
				w.IC.UnsetFocus()
			}
		}
		w.setPendingFocus(FocusNone, w.deadline)
	})
}

// PumpEvents translates all pending native events, dispatches due focus
// changes and polls the raw touch devices.
func (t *Translator) PumpEvents() {
	now := t.now()
	if t.suspendScreenSaver && (t.screenSaverActivity.IsZero() || now.Sub(t.screenSaverActivity) >= t.screenSaverInterval) {
		if err := t.display.ResetScreenSaver(); err != nil {
			t.log.Debug("could not reset screen saver", "err", err)
		}
		t.screenSaverActivity = now
	}

	for t.display.Pending() {
		t.DispatchOne()
	}

	t.HandleFocusChanges()

	// Touch input is reported by the server.
	if t.multitouch || len(t.touch) == 0 {
		return
	}
	if !t.touchActivity.IsZero() && now.Sub(t.touchActivity) < t.touchInterval {
		return
	}
	t.touchActivity = now
	for _, dev := range t.touch {
		if err := dev.Poll(); err != nil {
			t.log.Warn("could not poll touch device", "err", err)
		}
	}
}
