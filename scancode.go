package video

import "fmt"

// Scancode is a physical key position, numbered after the USB HID usage table.
type Scancode uint16

// Scancodes.
const (
	ScancodeUnknown Scancode = 0

	ScancodeA Scancode = 4 + iota - 1
	ScancodeB
	ScancodeC
	ScancodeD
	ScancodeE
	ScancodeF
	ScancodeG
	ScancodeH
	ScancodeI
	ScancodeJ
	ScancodeK
	ScancodeL
	ScancodeM
	ScancodeN
	ScancodeO
	ScancodeP
	ScancodeQ
	ScancodeR
	ScancodeS
	ScancodeT
	ScancodeU
	ScancodeV
	ScancodeW
	ScancodeX
	ScancodeY
	ScancodeZ
	Scancode1
	Scancode2
	Scancode3
	Scancode4
	Scancode5
	Scancode6
	Scancode7
	Scancode8
	Scancode9
	Scancode0
	ScancodeReturn
	ScancodeEscape
	ScancodeBackspace
	ScancodeTab
	ScancodeSpace
	ScancodeMinus
	ScancodeEquals
	ScancodeLeftBracket
	ScancodeRightBracket
	ScancodeBackslash
	ScancodeNonUSHash
	ScancodeSemicolon
	ScancodeApostrophe
	ScancodeGrave
	ScancodeComma
	ScancodePeriod
	ScancodeSlash
	ScancodeCapsLock
	ScancodeF1
	ScancodeF2
	ScancodeF3
	ScancodeF4
	ScancodeF5
	ScancodeF6
	ScancodeF7
	ScancodeF8
	ScancodeF9
	ScancodeF10
	ScancodeF11
	ScancodeF12
	ScancodePrintScreen
	ScancodeScrollLock
	ScancodePause
	ScancodeInsert
	ScancodeHome
	ScancodePageUp
	ScancodeDelete
	ScancodeEnd
	ScancodePageDown
	ScancodeRight
	ScancodeLeft
	ScancodeDown
	ScancodeUp
	ScancodeNumLock
	ScancodeKPDivide
	ScancodeKPMultiply
	ScancodeKPMinus
	ScancodeKPPlus
	ScancodeKPEnter
)

// Modifier scancodes.
const (
	ScancodeLeftCtrl Scancode = 224 + iota
	ScancodeLeftShift
	ScancodeLeftAlt
	ScancodeLeftGUI
	ScancodeRightCtrl
	ScancodeRightShift
	ScancodeRightAlt
	ScancodeRightGUI
)

// NumScancodes bounds the scancode space; all scancodes are below it.
const NumScancodes = 512

var scancodeNames = map[Scancode]string{
	ScancodeUnknown:      "Unknown",
	ScancodeReturn:       "Return",
	ScancodeEscape:       "Escape",
	ScancodeBackspace:    "Backspace",
	ScancodeTab:          "Tab",
	ScancodeSpace:        "Space",
	ScancodeMinus:        "-",
	ScancodeEquals:       "=",
	ScancodeLeftBracket:  "[",
	ScancodeRightBracket: "]",
	ScancodeBackslash:    "\\",
	ScancodeNonUSHash:    "#",
	ScancodeSemicolon:    ";",
	ScancodeApostrophe:   "'",
	ScancodeGrave:        "`",
	ScancodeComma:        ",",
	ScancodePeriod:       ".",
	ScancodeSlash:        "/",
	ScancodeCapsLock:     "CapsLock",
	ScancodePrintScreen:  "PrintScreen",
	ScancodeScrollLock:   "ScrollLock",
	ScancodePause:        "Pause",
	ScancodeInsert:       "Insert",
	ScancodeHome:         "Home",
	ScancodePageUp:       "PageUp",
	ScancodeDelete:       "Delete",
	ScancodeEnd:          "End",
	ScancodePageDown:     "PageDown",
	ScancodeRight:        "Right",
	ScancodeLeft:         "Left",
	ScancodeDown:         "Down",
	ScancodeUp:           "Up",
	ScancodeNumLock:      "NumLock",
	ScancodeKPDivide:     "Keypad /",
	ScancodeKPMultiply:   "Keypad *",
	ScancodeKPMinus:      "Keypad -",
	ScancodeKPPlus:       "Keypad +",
	ScancodeKPEnter:      "Keypad Enter",
	ScancodeLeftCtrl:     "Left Ctrl",
	ScancodeLeftShift:    "Left Shift",
	ScancodeLeftAlt:      "Left Alt",
	ScancodeLeftGUI:      "Left GUI",
	ScancodeRightCtrl:    "Right Ctrl",
	ScancodeRightShift:   "Right Shift",
	ScancodeRightAlt:     "Right Alt",
	ScancodeRightGUI:     "Right GUI",
}

func (s Scancode) String() string {
	switch {
	case s >= ScancodeA && s <= ScancodeZ:
		return string(rune('A' + s - ScancodeA))
	case s >= Scancode1 && s <= Scancode9:
		return string(rune('1' + s - Scancode1))
	case s == Scancode0:
		return "0"
	case s >= ScancodeF1 && s <= ScancodeF12:
		return fmt.Sprintf("F%d", 1+s-ScancodeF1)
	}
	if name, ok := scancodeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scancode(%d)", uint16(s))
}
