// Package touch translates raw Linux input events of single touch devices
// into finger events.
package touch

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/BeatGlow/video"
)

// From <linux/input-event-codes.h>.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03
	evMsc = 0x04

	absX        = 0x00
	absY        = 0x01
	absPressure = 0x18
	absMisc     = 0x28

	mscSerial = 0x00

	btnTouch = 0x14a
)

// RawEvent is a struct input_event without its time stamp.
type RawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func (ev RawEvent) String() string {
	return fmt.Sprintf("type=%#x code=%#x value=%d", ev.Type, ev.Code, ev.Value)
}

// Source produces raw events.
type Source interface {
	// Read returns the events available now. It never blocks and returns no
	// events when nothing is available.
	Read() ([]RawEvent, error)
}

// State of a touch device.
type State uint8

// States.
const (
	Idle State = iota
	Down
	Tracking
)

func (s State) String() string {
	switch s {
	case Down:
		return "down"
	case Tracking:
		return "tracking"
	default:
		return "idle"
	}
}

// Point is the sample being accumulated until the next sync.
type Point struct {
	X, Y     int
	Pressure int
	Finger   int64
	Down, Up bool
}

// idlePoint has the values of a device without a finger.
var idlePoint = Point{X: -1, Y: -1, Pressure: -1}

// Device is a single touch device.
type Device struct {
	id    int64
	src   Source
	sink  video.Sink
	log   *slog.Logger
	state State
	point Point
}

// New returns a device reading from src and reporting as touch id.
func New(id int64, src Source, sink video.Sink, logger *slog.Logger) *Device {
	return &Device{
		id:    id,
		src:   src,
		sink:  sink,
		log:   video.LoggerOrDiscard(logger).With("touch", id),
		point: idlePoint,
	}
}

// ID returns the touch id.
func (d *Device) ID() int64 {
	return d.id
}

// State returns the state.
func (d *Device) State() State {
	return d.state
}

// Point returns the sample being accumulated.
func (d *Device) Point() Point {
	return d.point
}

// Poll feeds all available raw events. Events read before a failure are fed
// before the error is returned.
func (d *Device) Poll() error {
	events, err := d.src.Read()
	for _, ev := range events {
		d.Feed(ev)
	}
	if err != nil {
		return fmt.Errorf("touch %d: %w", d.id, err)
	}
	return nil
}

// Close closes the source if it can be closed.
func (d *Device) Close() error {
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Feed processes one raw event.
func (d *Device) Feed(ev RawEvent) {
	switch ev.Type {
	case evAbs:
		switch ev.Code {
		case absX:
			d.point.X = int(ev.Value)
		case absY:
			d.point.Y = int(ev.Value)
		case absPressure:
			d.point.Pressure = max(int(ev.Value), 0)
		case absMisc:
			if ev.Value == 0 {
				d.point.Up = true
			}
		}
	case evMsc:
		if ev.Code == mscSerial {
			d.point.Finger = int64(ev.Value)
		}
	case evKey:
		if ev.Code == btnTouch && ev.Value == 0 {
			d.point.Up = true
		}
	case evSyn:
		d.commit()
	}
}

// commit reports the accumulated sample.
func (d *Device) commit() {
	p := &d.point
	switch {
	case d.state == Idle:
		p.Down = true
		d.state = Down
		d.log.Debug("finger down", "finger", p.Finger, "x", p.X, "y", p.Y, "pressure", p.Pressure)
		// An up flag already set stays pending for the next sync.
		d.sink.SendFingerDown(d.id, p.Finger, true, p.X, p.Y, p.Pressure)
	case !p.Up:
		d.state = Tracking
		d.sink.SendTouchMotion(d.id, p.Finger, p.X, p.Y, p.Pressure)
	default:
		d.release()
	}
}

func (d *Device) release() {
	p := d.point
	d.log.Debug("finger up", "finger", p.Finger, "x", p.X, "y", p.Y, "pressure", p.Pressure)
	d.sink.SendFingerDown(d.id, p.Finger, false, p.X, p.Y, p.Pressure)
	d.point = idlePoint
	d.state = Idle
}

// parser decodes a stream of struct input_event records of a fixed size. The
// type, code and value are the last 8 bytes of a record.
type parser struct {
	size  int
	order binary.ByteOrder
	buf   []byte
}

func (p *parser) feed(chunk []byte) []RawEvent {
	p.buf = append(p.buf, chunk...)
	var events []RawEvent
	for len(p.buf) >= p.size {
		rec := p.buf[p.size-8 : p.size]
		events = append(events, RawEvent{
			Type:  p.order.Uint16(rec[0:2]),
			Code:  p.order.Uint16(rec[2:4]),
			Value: int32(p.order.Uint32(rec[4:8])),
		})
		p.buf = p.buf[p.size:]
	}
	if len(p.buf) == 0 {
		p.buf = nil
	}
	return events
}
