package x11

import (
	"github.com/jezek/xgb/xproto"

	"github.com/BeatGlow/video"
)

// KeyLayout maps native key codes.
type KeyLayout interface {
	// Scancode returns the physical key of a key code.
	Scancode(code xproto.Keycode) video.Scancode

	// Keysym returns the symbol of a key code for the modifier state.
	Keysym(code xproto.Keycode, state uint16) xproto.Keysym

	// Update reloads the layout after the server reported a mapping change.
	Update() error
}

// KeyboardMapper fetches the keyboard mapping of the server.
type KeyboardMapper interface {
	KeyboardMapping() (first xproto.Keycode, perKeycode int, keysyms []xproto.Keysym, err error)
}

// evdevOffset is the distance between X key codes and Linux evdev key codes
// in the evdev and libinput X drivers.
const evdevOffset = 8

// evdevScancodes maps Linux evdev key codes to scancodes.
var evdevScancodes = map[uint8]video.Scancode{
	1:   video.ScancodeEscape,
	2:   video.Scancode1,
	3:   video.Scancode2,
	4:   video.Scancode3,
	5:   video.Scancode4,
	6:   video.Scancode5,
	7:   video.Scancode6,
	8:   video.Scancode7,
	9:   video.Scancode8,
	10:  video.Scancode9,
	11:  video.Scancode0,
	12:  video.ScancodeMinus,
	13:  video.ScancodeEquals,
	14:  video.ScancodeBackspace,
	15:  video.ScancodeTab,
	16:  video.ScancodeQ,
	17:  video.ScancodeW,
	18:  video.ScancodeE,
	19:  video.ScancodeR,
	20:  video.ScancodeT,
	21:  video.ScancodeY,
	22:  video.ScancodeU,
	23:  video.ScancodeI,
	24:  video.ScancodeO,
	25:  video.ScancodeP,
	26:  video.ScancodeLeftBracket,
	27:  video.ScancodeRightBracket,
	28:  video.ScancodeReturn,
	29:  video.ScancodeLeftCtrl,
	30:  video.ScancodeA,
	31:  video.ScancodeS,
	32:  video.ScancodeD,
	33:  video.ScancodeF,
	34:  video.ScancodeG,
	35:  video.ScancodeH,
	36:  video.ScancodeJ,
	37:  video.ScancodeK,
	38:  video.ScancodeL,
	39:  video.ScancodeSemicolon,
	40:  video.ScancodeApostrophe,
	41:  video.ScancodeGrave,
	42:  video.ScancodeLeftShift,
	43:  video.ScancodeBackslash,
	44:  video.ScancodeZ,
	45:  video.ScancodeX,
	46:  video.ScancodeC,
	47:  video.ScancodeV,
	48:  video.ScancodeB,
	49:  video.ScancodeN,
	50:  video.ScancodeM,
	51:  video.ScancodeComma,
	52:  video.ScancodePeriod,
	53:  video.ScancodeSlash,
	54:  video.ScancodeRightShift,
	55:  video.ScancodeKPMultiply,
	56:  video.ScancodeLeftAlt,
	57:  video.ScancodeSpace,
	58:  video.ScancodeCapsLock,
	59:  video.ScancodeF1,
	60:  video.ScancodeF2,
	61:  video.ScancodeF3,
	62:  video.ScancodeF4,
	63:  video.ScancodeF5,
	64:  video.ScancodeF6,
	65:  video.ScancodeF7,
	66:  video.ScancodeF8,
	67:  video.ScancodeF9,
	68:  video.ScancodeF10,
	69:  video.ScancodeNumLock,
	70:  video.ScancodeScrollLock,
	74:  video.ScancodeKPMinus,
	78:  video.ScancodeKPPlus,
	87:  video.ScancodeF11,
	88:  video.ScancodeF12,
	96:  video.ScancodeKPEnter,
	97:  video.ScancodeRightCtrl,
	98:  video.ScancodeKPDivide,
	99:  video.ScancodePrintScreen,
	100: video.ScancodeRightAlt,
	102: video.ScancodeHome,
	103: video.ScancodeUp,
	104: video.ScancodePageUp,
	105: video.ScancodeLeft,
	106: video.ScancodeRight,
	107: video.ScancodeEnd,
	108: video.ScancodeDown,
	109: video.ScancodePageDown,
	110: video.ScancodeInsert,
	111: video.ScancodeDelete,
	119: video.ScancodePause,
	125: video.ScancodeLeftGUI,
	126: video.ScancodeRightGUI,
}

// Modifier masks of the key event state.
const (
	stateShift = uint16(xproto.ModMaskShift)
	stateLock  = uint16(xproto.ModMaskLock)
)

// Keymap is a [KeyLayout] for servers using evdev key codes. Keysyms are
// fetched from the server and refreshed by Update.
type Keymap struct {
	mapper  KeyboardMapper
	first   xproto.Keycode
	per     int
	keysyms []xproto.Keysym
}

// NewKeymap loads the keyboard mapping.
func NewKeymap(mapper KeyboardMapper) (*Keymap, error) {
	m := &Keymap{mapper: mapper}
	if err := m.Update(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Keymap) Update() error {
	first, per, keysyms, err := m.mapper.KeyboardMapping()
	if err != nil {
		return err
	}
	m.first, m.per, m.keysyms = first, per, keysyms
	return nil
}

func (m *Keymap) Scancode(code xproto.Keycode) video.Scancode {
	if code < evdevOffset {
		return video.ScancodeUnknown
	}
	if s, ok := evdevScancodes[uint8(code)-evdevOffset]; ok {
		return s
	}
	return video.ScancodeUnknown
}

func (m *Keymap) Keysym(code xproto.Keycode, state uint16) xproto.Keysym {
	if code < m.first || m.per == 0 {
		return 0
	}
	i := int(code-m.first) * m.per
	if i >= len(m.keysyms) {
		return 0
	}
	sym := m.keysyms[i]
	if state&stateShift != 0 && m.per > 1 && i+1 < len(m.keysyms) && m.keysyms[i+1] != 0 {
		sym = m.keysyms[i+1]
	}
	if state&stateLock != 0 && sym >= 'a' && sym <= 'z' {
		sym -= 'a' - 'A'
	}
	return sym
}
