package video

// Queue is an in-memory [Sink] that records canonical events in arrival order
// and keeps the keyboard and mouse focus state the backends query.
//
// Queue is not safe for concurrent use; like the backends it is driven from
// the pump goroutine.
type Queue struct {
	events   []Event
	keyboard WindowID
	mouse    WindowID
	pressed  [NumScancodes]bool

	// Relative captures the pointer in relative mode.
	Relative bool

	// SysWM enables delivery of native events.
	SysWM bool
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return new(Queue)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Poll removes and returns the oldest event.
func (q *Queue) Poll() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// Drain removes and returns all queued events.
func (q *Queue) Drain() []Event {
	events := q.events
	q.events = nil
	return events
}

func (q *Queue) push(ev Event) {
	q.events = append(q.events, ev)
}

func (q *Queue) SendKeyboardKey(state State, code Scancode) {
	if code >= NumScancodes {
		return
	}
	if state == Released && !q.pressed[code] {
		// Release without press, e.g. after a keyboard reset.
		return
	}
	q.pressed[code] = state == Pressed
	typ := EventKeyDown
	if state == Released {
		typ = EventKeyUp
	}
	q.push(Event{Type: typ, Window: q.keyboard, Scancode: code})
}

func (q *Queue) SendKeyboardText(text string) {
	if text == "" {
		return
	}
	q.push(Event{Type: EventTextInput, Window: q.keyboard, Text: text})
}

func (q *Queue) SendMouseMotion(win WindowID, relative bool, x, y int) {
	q.push(Event{Type: EventMouseMotion, Window: win, Relative: relative, X: x, Y: y})
}

func (q *Queue) SendMouseButton(win WindowID, state State, button uint8) {
	typ := EventMouseButtonDown
	if state == Released {
		typ = EventMouseButtonUp
	}
	q.push(Event{Type: typ, Window: win, Button: button})
}

func (q *Queue) SendMouseWheel(win WindowID, x, y int) {
	q.push(Event{Type: EventMouseWheel, Window: win, X: x, Y: y})
}

func (q *Queue) SendWindowEvent(win WindowID, id WindowEventID, data1, data2 int) {
	q.push(Event{Type: EventWindow, Window: win, WindowEvent: id, X: data1, Y: data2})
}

func (q *Queue) SendFingerDown(touchID, fingerID int64, down bool, x, y, pressure int) {
	typ := EventFingerDown
	if !down {
		typ = EventFingerUp
	}
	q.push(Event{Type: typ, TouchID: touchID, FingerID: fingerID, X: x, Y: y, Pressure: pressure})
}

func (q *Queue) SendTouchMotion(touchID, fingerID int64, x, y, pressure int) {
	q.push(Event{Type: EventFingerMotion, TouchID: touchID, FingerID: fingerID, X: x, Y: y, Pressure: pressure})
}

func (q *Queue) SendSysWMEvent(native any) {
	if !q.SysWM {
		return
	}
	q.push(Event{Type: EventSysWM, Native: native})
}

func (q *Queue) SysWMEnabled() bool {
	return q.SysWM
}

func (q *Queue) SetMouseFocus(win WindowID) {
	if q.mouse == win {
		return
	}
	if q.mouse != 0 {
		q.SendWindowEvent(q.mouse, WindowLeave, 0, 0)
	}
	q.mouse = win
	if win != 0 {
		q.SendWindowEvent(win, WindowEnter, 0, 0)
	}
}

// MouseFocus returns the window with mouse focus.
func (q *Queue) MouseFocus() WindowID {
	return q.mouse
}

func (q *Queue) SetKeyboardFocus(win WindowID) {
	if q.keyboard == win {
		return
	}
	if q.keyboard != 0 {
		q.SendWindowEvent(q.keyboard, WindowFocusLost, 0, 0)
	}
	q.keyboard = win
	if win != 0 {
		q.SendWindowEvent(win, WindowFocusGained, 0, 0)
	}
}

func (q *Queue) KeyboardFocus() WindowID {
	return q.keyboard
}

func (q *Queue) ResetKeyboard() {
	for code, down := range q.pressed {
		if down {
			q.SendKeyboardKey(Released, Scancode(code))
		}
	}
}

func (q *Queue) RelativeMode() bool {
	return q.Relative
}

// Interface checks.
var _ Sink = (*Queue)(nil)
