package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces per-path events: each incoming event restarts
// the path's timer, and the latest event is emitted once the window
// passes with no further activity.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*pendingEvent
	emit    func(Event)
	closed  bool
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

func newDebouncer(window time.Duration, emit func(Event)) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*pendingEvent),
		emit:    emit,
	}
}

// Add records an event, restarting the debounce window for its path.
func (d *debouncer) Add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.window <= 0 {
		d.emit(ev)
		return
	}
	if p, ok := d.pending[ev.Path]; ok {
		p.event = ev
		p.timer.Reset(d.window)
		return
	}
	p := &pendingEvent{event: ev}
	p.timer = time.AfterFunc(d.window, func() { d.fire(ev.Path) })
	d.pending[ev.Path] = p
}

func (d *debouncer) fire(path string) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if ok {
		delete(d.pending, path)
	}
	closed := d.closed
	d.mu.Unlock()
	if ok && !closed {
		d.emit(p.event)
	}
}

// Flush delivers all pending events immediately.
func (d *debouncer) Flush() {
	d.mu.Lock()
	events := make([]Event, 0, len(d.pending))
	for path, p := range d.pending {
		p.timer.Stop()
		events = append(events, p.event)
		delete(d.pending, path)
	}
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}
	for _, ev := range events {
		d.emit(ev)
	}
}

// Close drops pending events and stops their timers.
func (d *debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}
