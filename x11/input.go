package x11

import (
	"unicode"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/text/unicode/norm"
)

// InputMethod sees every native event before it is translated.
type InputMethod interface {
	// Filter reports if the event was consumed, e.g. as part of a composition.
	Filter(ev xgb.Event) bool
}

// InputContext turns key presses of one window into text.
type InputContext interface {
	// LookupString returns the text committed by a key press.
	LookupString(ev xproto.KeyPressEvent) string

	// SetFocus and UnsetFocus follow the keyboard focus of the window.
	SetFocus()
	UnsetFocus()

	Close() error
}

// deadKey is a combining mark entered with a dead key and its spacing form.
type deadKey struct {
	mark    rune
	spacing rune
}

// From X11/keysymdef.h.
var deadKeys = map[xproto.Keysym]deadKey{
	0xfe50: {'\u0300', '`'},
	0xfe51: {'\u0301', '´'},
	0xfe52: {'\u0302', '^'},
	0xfe53: {'\u0303', '~'},
	0xfe54: {'\u0304', '¯'},
	0xfe57: {'\u0308', '¨'},
	0xfe58: {'\u030a', '°'},
	0xfe5a: {'\u030c', 'ˇ'},
	0xfe5b: {'\u0327', '¸'},
}

// keypadKeysyms are the printable keypad keysyms.
var keypadKeysyms = map[xproto.Keysym]rune{
	0xff80: ' ',
	0xffaa: '*',
	0xffab: '+',
	0xffac: ',',
	0xffad: '-',
	0xffae: '.',
	0xffaf: '/',
	0xffbd: '=',
}

// keysymRune returns the printable character of a keysym, or zero.
func keysymRune(sym xproto.Keysym) rune {
	var r rune
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		// Latin-1 keysyms are their code points.
		r = rune(sym)
	case sym&0xff000000 == 0x01000000:
		r = rune(sym & 0x00ffffff)
	case sym >= 0xffb0 && sym <= 0xffb9:
		r = rune('0' + sym - 0xffb0)
	default:
		r = keypadKeysyms[sym]
	}
	if r == 0 || !unicode.IsPrint(r) {
		return 0
	}
	return r
}

// Compose is an [InputMethod] implementing dead key composition on top of a
// [KeyLayout]. Dead key presses are filtered; the next printable key press
// commits the composed text through the window's [InputContext].
type Compose struct {
	keys    KeyLayout
	pending *deadKey
}

// NewCompose returns an input method reading keysyms from keys.
func NewCompose(keys KeyLayout) *Compose {
	return &Compose{keys: keys}
}

func (c *Compose) Filter(ev xgb.Event) bool {
	press, ok := ev.(xproto.KeyPressEvent)
	if !ok {
		return false
	}
	dead, ok := deadKeys[c.keys.Keysym(press.Detail, press.State)]
	if !ok {
		return false
	}
	c.pending = &dead
	return true
}

// NewContext returns an input context for a window.
func (c *Compose) NewContext() InputContext {
	return &composeContext{im: c}
}

// compose commits r, combined with a pending dead key.
func (c *Compose) compose(r rune) string {
	dead := c.pending
	c.pending = nil
	switch {
	case dead == nil:
		return string(r)
	case r == ' ':
		return string(dead.spacing)
	default:
		return norm.NFC.String(string([]rune{r, dead.mark}))
	}
}

type composeContext struct {
	im      *Compose
	focused bool
	closed  bool
}

func (ic *composeContext) LookupString(ev xproto.KeyPressEvent) string {
	if ic.closed {
		return ""
	}
	r := keysymRune(ic.im.keys.Keysym(ev.Detail, ev.State))
	if r == 0 {
		return ""
	}
	return ic.im.compose(r)
}

func (ic *composeContext) SetFocus() {
	ic.focused = true
}

func (ic *composeContext) UnsetFocus() {
	ic.focused = false
	// A composition does not survive a focus change.
	ic.im.pending = nil
}

func (ic *composeContext) Close() error {
	ic.closed = true
	return nil
}

// Interface checks.
var (
	_ InputMethod  = (*Compose)(nil)
	_ InputContext = (*composeContext)(nil)
	_ KeyLayout    = (*Keymap)(nil)
)
