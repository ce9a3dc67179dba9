package x11

import "github.com/jezek/xgb/xproto"

// repeatWindow is the largest time difference, in server milliseconds, between
// a key release and the next press that is treated as auto repeat.
const repeatWindow = 2

// isWheel reports if a button press is a wheel tick. X has no wheel events:
// a wheel turn is a press immediately followed by a release of the same
// button with the same time stamp. On a match the release is removed from src
// and ticks is +1 for Button4 (up), -1 for Button5 (down) and 0 otherwise.
//
// A genuine click on a server with a coarse clock can look the same and will
// be reported as a wheel tick.
func isWheel(src Source, ev xproto.ButtonPressEvent) (wheel bool, ticks int) {
	if !src.Pending() {
		return false, 0
	}
	peek, ok := src.Peek().(xproto.ButtonReleaseEvent)
	if !ok || peek.Detail != ev.Detail || peek.Time != ev.Time {
		return false, 0
	}

	switch ev.Detail {
	case xproto.ButtonIndex4:
		ticks = 1
	case xproto.ButtonIndex5:
		ticks = -1
	}

	src.Next()
	return true, ticks
}

// isRepeat reports if a key release is followed by a press of the same key
// within the repeat window. The press stays queued.
func isRepeat(src Source, ev xproto.KeyReleaseEvent) bool {
	if !src.Pending() {
		return false
	}
	peek, ok := src.Peek().(xproto.KeyPressEvent)
	return ok &&
		peek.Detail == ev.Detail &&
		peek.Time-ev.Time < repeatWindow
}
