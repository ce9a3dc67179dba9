package video

import "fmt"

// EventType is the kind of a canonical event.
type EventType uint8

// Event types.
const (
	EventNone EventType = iota
	EventKeyDown
	EventKeyUp
	EventTextInput
	EventMouseMotion
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseWheel
	EventWindow
	EventFingerDown
	EventFingerUp
	EventFingerMotion
	EventSysWM
)

var eventTypeNames = [...]string{
	EventNone:            "none",
	EventKeyDown:         "key-down",
	EventKeyUp:           "key-up",
	EventTextInput:       "text-input",
	EventMouseMotion:     "mouse-motion",
	EventMouseButtonDown: "mouse-button-down",
	EventMouseButtonUp:   "mouse-button-up",
	EventMouseWheel:      "mouse-wheel",
	EventWindow:          "window",
	EventFingerDown:      "finger-down",
	EventFingerUp:        "finger-up",
	EventFingerMotion:    "finger-motion",
	EventSysWM:           "syswm",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// WindowEventID is the sub type of an [EventWindow] event.
type WindowEventID uint8

// Window events.
const (
	WindowNone WindowEventID = iota
	WindowShown
	WindowHidden
	WindowExposed
	WindowMoved
	WindowResized
	WindowMinimized
	WindowMaximized
	WindowRestored
	WindowEnter
	WindowLeave
	WindowFocusGained
	WindowFocusLost
	WindowClose
)

var windowEventNames = [...]string{
	WindowNone:        "none",
	WindowShown:       "shown",
	WindowHidden:      "hidden",
	WindowExposed:     "exposed",
	WindowMoved:       "moved",
	WindowResized:     "resized",
	WindowMinimized:   "minimized",
	WindowMaximized:   "maximized",
	WindowRestored:    "restored",
	WindowEnter:       "enter",
	WindowLeave:       "leave",
	WindowFocusGained: "focus-gained",
	WindowFocusLost:   "focus-lost",
	WindowClose:       "close",
}

func (id WindowEventID) String() string {
	if int(id) < len(windowEventNames) {
		return windowEventNames[id]
	}
	return fmt.Sprintf("WindowEventID(%d)", uint8(id))
}

// State of a key or button.
type State uint8

// States.
const (
	Released State = iota
	Pressed
)

func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is a canonical, platform independent event. Only the fields relevant
// to the Type are set.
type Event struct {
	Type   EventType
	Window WindowID

	// Keyboard.
	Scancode Scancode
	Text     string

	// Mouse and window.
	Button      uint8
	X, Y        int
	Relative    bool
	WindowEvent WindowEventID

	// Touch.
	TouchID  int64
	FingerID int64
	Pressure int

	// Native is the untranslated platform event for EventSysWM.
	Native any
}

func (e Event) String() string {
	switch e.Type {
	case EventKeyDown, EventKeyUp:
		return fmt.Sprintf("%s %s", e.Type, e.Scancode)
	case EventTextInput:
		return fmt.Sprintf("%s %q", e.Type, e.Text)
	case EventMouseMotion, EventMouseWheel:
		return fmt.Sprintf("%s window=%d (%d,%d)", e.Type, e.Window, e.X, e.Y)
	case EventMouseButtonDown, EventMouseButtonUp:
		return fmt.Sprintf("%s window=%d button=%d", e.Type, e.Window, e.Button)
	case EventWindow:
		return fmt.Sprintf("%s window=%d %s (%d,%d)", e.Type, e.Window, e.WindowEvent, e.X, e.Y)
	case EventFingerDown, EventFingerUp, EventFingerMotion:
		return fmt.Sprintf("%s touch=%d finger=%d (%d,%d) pressure=%d", e.Type, e.TouchID, e.FingerID, e.X, e.Y, e.Pressure)
	default:
		return e.Type.String()
	}
}

// Sink receives canonical events from a backend. The backends are producers
// only; they query the sink for the little focus and mode state they need.
type Sink interface {
	// SendKeyboardKey reports a key press or release.
	SendKeyboardKey(state State, code Scancode)

	// SendKeyboardText reports committed text input.
	SendKeyboardText(text string)

	// SendMouseMotion reports pointer motion inside a window.
	SendMouseMotion(win WindowID, relative bool, x, y int)

	// SendMouseButton reports a pointer button press or release.
	SendMouseButton(win WindowID, state State, button uint8)

	// SendMouseWheel reports wheel ticks.
	SendMouseWheel(win WindowID, x, y int)

	// SendWindowEvent reports a window lifecycle change.
	SendWindowEvent(win WindowID, id WindowEventID, data1, data2 int)

	// SendFingerDown reports a finger touching (down) or leaving (!down) a touch device.
	SendFingerDown(touchID, fingerID int64, down bool, x, y, pressure int)

	// SendTouchMotion reports a tracked finger moving.
	SendTouchMotion(touchID, fingerID int64, x, y, pressure int)

	// SendSysWMEvent forwards an untranslated native event.
	SendSysWMEvent(native any)

	// SysWMEnabled reports if the application wants native events.
	SysWMEnabled() bool

	// SetMouseFocus moves the mouse focus, zero clears it.
	SetMouseFocus(win WindowID)

	// SetKeyboardFocus moves the keyboard focus, zero clears it.
	SetKeyboardFocus(win WindowID)

	// KeyboardFocus returns the window with keyboard focus.
	KeyboardFocus() WindowID

	// ResetKeyboard releases all keys that are currently held.
	ResetKeyboard()

	// RelativeMode reports if the pointer is captured in relative mode.
	RelativeMode() bool
}
