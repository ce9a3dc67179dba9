package x11

import (
	"errors"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/BeatGlow/video"
)

const (
	testRoot   xproto.Window = 0x100
	testHandle xproto.Window = 0x200001
	testOther  xproto.Window = 0x300001
	testWindow video.WindowID = 7
)

var testAtoms = Atoms{
	WMProtocols:      301,
	WMDeleteWindow:   302,
	NetWMPing:        303,
	NetWMState:       304,
	NetWMStateHidden: 305,
}

type sentEvent struct {
	Dest  xproto.Window
	Mask  uint32
	Event xgb.Event
}

type propertyKey struct {
	Window   xproto.Window
	Property xproto.Atom
}

type changedProperty struct {
	Window   xproto.Window
	Property xproto.Atom
	Type     xproto.Atom
	Format   byte
	Count    uint32
	Data     []byte
}

type fakeDisplay struct {
	queue   []xgb.Event
	props   map[propertyKey]*xproto.GetPropertyReply
	sent    []sentEvent
	changed []changedProperty
	syncs   int
	resets  int
}

func newFakeDisplay(events ...xgb.Event) *fakeDisplay {
	return &fakeDisplay{
		queue: events,
		props: make(map[propertyKey]*xproto.GetPropertyReply),
	}
}

func (d *fakeDisplay) push(events ...xgb.Event) {
	d.queue = append(d.queue, events...)
}

func (d *fakeDisplay) Pending() bool {
	return len(d.queue) > 0
}

func (d *fakeDisplay) Next() xgb.Event {
	if len(d.queue) == 0 {
		return nil
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev
}

func (d *fakeDisplay) Peek() xgb.Event {
	if len(d.queue) == 0 {
		return nil
	}
	return d.queue[0]
}

func (d *fakeDisplay) Root() xproto.Window {
	return testRoot
}

func (d *fakeDisplay) Atoms() Atoms {
	return testAtoms
}

func (d *fakeDisplay) SendEvent(dest xproto.Window, mask uint32, ev xgb.Event) error {
	d.sent = append(d.sent, sentEvent{Dest: dest, Mask: mask, Event: ev})
	return nil
}

func (d *fakeDisplay) setProperty(win xproto.Window, prop, typ xproto.Atom, format byte, value []byte) {
	count := uint32(len(value))
	if format > 8 {
		count /= uint32(format / 8)
	}
	d.props[propertyKey{win, prop}] = &xproto.GetPropertyReply{
		Format:   format,
		Type:     typ,
		ValueLen: count,
		Value:    value,
	}
}

func (d *fakeDisplay) setAtoms(win xproto.Window, prop xproto.Atom, atoms ...xproto.Atom) {
	value := make([]byte, 4*len(atoms))
	for i, atom := range atoms {
		xgb.Put32(value[i*4:], uint32(atom))
	}
	d.setProperty(win, prop, xproto.AtomAtom, 32, value)
}

func (d *fakeDisplay) GetProperty(win xproto.Window, prop, typ xproto.Atom) (*xproto.GetPropertyReply, error) {
	if win == testOther {
		return nil, errors.New("BadWindow")
	}
	reply, ok := d.props[propertyKey{win, prop}]
	if !ok {
		return &xproto.GetPropertyReply{Type: xproto.AtomNone}, nil
	}
	if reply.Type != typ {
		// Like the server: report the actual type, return no data.
		return &xproto.GetPropertyReply{Type: reply.Type, Format: reply.Format, BytesAfter: uint32(len(reply.Value))}, nil
	}
	return reply, nil
}

func (d *fakeDisplay) ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, count uint32, data []byte) error {
	d.changed = append(d.changed, changedProperty{win, prop, typ, format, count, data})
	return nil
}

func (d *fakeDisplay) Sync() error {
	d.syncs++
	return nil
}

func (d *fakeDisplay) ResetScreenSaver() error {
	d.resets++
	return nil
}

type keyKey struct {
	Code  xproto.Keycode
	State uint16
}

type fakeKeys struct {
	scancodes map[xproto.Keycode]video.Scancode
	keysyms   map[keyKey]xproto.Keysym
	updates   int
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{
		scancodes: map[xproto.Keycode]video.Scancode{
			38: video.ScancodeA,
			26: video.ScancodeE,
			50: video.ScancodeLeftShift,
			65: video.ScancodeSpace,
			34: video.ScancodeLeftBracket,
		},
		keysyms: map[keyKey]xproto.Keysym{
			{38, 0}:          'a',
			{38, stateShift}: 'A',
			{26, 0}:          'e',
			{65, 0}:          ' ',
			{34, 0}:          0xfe51, // dead_acute
		},
	}
}

func (k *fakeKeys) Scancode(code xproto.Keycode) video.Scancode {
	return k.scancodes[code]
}

func (k *fakeKeys) Keysym(code xproto.Keycode, state uint16) xproto.Keysym {
	return k.keysyms[keyKey{code, state}]
}

func (k *fakeKeys) Update() error {
	k.updates++
	return nil
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeTouch struct {
	polls int
}

func (t *fakeTouch) Poll() error {
	t.polls++
	return nil
}

type fakeContext struct {
	focused bool
	closed  bool
	text    map[xproto.Keycode]string
}

func (ic *fakeContext) LookupString(ev xproto.KeyPressEvent) string {
	return ic.text[ev.Detail]
}

func (ic *fakeContext) SetFocus()   { ic.focused = true }
func (ic *fakeContext) UnsetFocus() { ic.focused = false }

func (ic *fakeContext) Close() error {
	ic.closed = true
	return nil
}

type testEnv struct {
	display *fakeDisplay
	keys    *fakeKeys
	windows *Registry
	window  *Window
	queue   *video.Queue
	clock   *fakeClock
	trans   *Translator
}

func newTestEnv(config *Config) *testEnv {
	env := &testEnv{
		display: newFakeDisplay(),
		keys:    newFakeKeys(),
		windows: NewRegistry(),
		window:  &Window{Handle: testHandle, ID: testWindow},
		queue:   video.NewQueue(),
		clock:   newFakeClock(),
	}
	env.window.SetGeometry(10, 20, 640, 480)
	_ = env.windows.Add(env.window)

	c := DefaultConfig
	if config != nil {
		c = *config
	}
	c.Now = env.clock.Now
	env.trans = NewTranslator(env.display, env.keys, env.windows, env.queue, &c)
	return env
}

// dispatch queues events and translates everything pending.
func (env *testEnv) dispatch(events ...xgb.Event) []video.Event {
	env.display.push(events...)
	for env.display.Pending() {
		env.trans.DispatchOne()
	}
	return env.queue.Drain()
}
