package trace

import (
	"errors"
	"io"
	"os"
	"sync"
)

// Nop drops every event. FromContext returns it when no tracer is attached.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// StreamTracer formats each accepted event and writes it right away.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	err    error // первая ошибка записи, отдаётся из Flush
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	line := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	// сбой записи трейса композицию не останавливает
	if _, err := t.w.Write(line); err != nil {
		t.err = err
	}
}

// Flush reports the first write error, then flushes w if it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if t.w == os.Stdout || t.w == os.Stderr {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// RingTracer keeps the most recent events in a fixed-size buffer.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	start int // индекс самого старого события
	n     int
	level Level
}

// DefaultRingSize is used when a ring is requested with a non-positive size.
const DefaultRingSize = 4096

func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = *ev
		t.n++
		return
	}
	// полный буфер: перезаписываем самое старое
	t.buf[t.start] = *ev
	t.start = (t.start + 1) % len(t.buf)
}

// Snapshot copies the buffered events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, t.n)
	for i := range out {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Dump writes the buffered events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// teeTracer feeds a stream and a ring at the same time (ModeBoth).
type teeTracer struct {
	stream *StreamTracer
	ring   *RingTracer
	level  Level
}

func (t *teeTracer) Emit(ev *Event) {
	// каждый приёмник получает свою копию
	a, b := *ev, *ev
	t.stream.Emit(&a)
	t.ring.Emit(&b)
}

func (t *teeTracer) Flush() error  { return t.stream.Flush() }
func (t *teeTracer) Close() error  { return t.stream.Close() }
func (t *teeTracer) Level() Level  { return t.level }
func (t *teeTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t, if any.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch tr := t.(type) {
	case *RingTracer:
		return tr, true
	case *teeTracer:
		return tr.ring, true
	}
	return nil, false
}
