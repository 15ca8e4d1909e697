package arbor

import (
	"fmt"
	"slices"
)

type listenerEntry struct {
	id uint64
	fn func(Event)
}

// EventDispatcher keeps ordered listener lists per event type. The zero
// value is ready to use; display objects embed one.
//
// Listener lists are copy-on-write, so a dispatch always runs the snapshot
// taken when it started.
type EventDispatcher struct {
	target    any
	listeners map[EventType][]listenerEntry
	nextID    uint64
}

// NewEventDispatcher returns a dispatcher reporting target as the current
// target of the events it dispatches. A nil target reports the dispatcher.
func NewEventDispatcher(target any) *EventDispatcher {
	return &EventDispatcher{target: target}
}

// ListenerHandle identifies one registered (type, listener) pair.
type ListenerHandle struct {
	d   *EventDispatcher
	typ EventType
	id  uint64
}

// Remove unregisters the listener. Safe to call more than once.
func (h ListenerHandle) Remove() {
	if h.d == nil {
		return
	}
	h.d.RemoveEventListener(h.typ, h)
}

// Type returns the event type the listener was registered for.
func (h ListenerHandle) Type() EventType { return h.typ }

// AddEventListener registers fn for events of the given type. Listeners run
// in registration order. Panics if typ is empty or fn is nil.
func (d *EventDispatcher) AddEventListener(typ EventType, fn func(Event)) ListenerHandle {
	if typ == "" {
		panic(fmt.Errorf("%w: AddEventListener with empty event type", ErrInvalidArgument))
	}
	if fn == nil {
		panic(fmt.Errorf("%w: AddEventListener(%q) with nil listener", ErrInvalidArgument, typ))
	}
	if d.listeners == nil {
		d.listeners = make(map[EventType][]listenerEntry)
	}
	d.nextID++
	cur := d.listeners[typ]
	next := make([]listenerEntry, len(cur), len(cur)+1)
	copy(next, cur)
	d.listeners[typ] = append(next, listenerEntry{id: d.nextID, fn: fn})
	return ListenerHandle{d: d, typ: typ, id: d.nextID}
}

// RemoveEventListener removes the pair identified by h. Removing a pair that
// is not registered, or a handle from another dispatcher, is a no-op.
func (d *EventDispatcher) RemoveEventListener(typ EventType, h ListenerHandle) {
	if h.d != d || h.typ != typ {
		return
	}
	cur := d.listeners[typ]
	i := slices.IndexFunc(cur, func(e listenerEntry) bool { return e.id == h.id })
	if i < 0 {
		return
	}
	if len(cur) == 1 {
		delete(d.listeners, typ)
		return
	}
	next := make([]listenerEntry, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	d.listeners[typ] = append(next, cur[i+1:]...)
}

// HasEventListener reports whether any listener is registered for typ.
func (d *EventDispatcher) HasEventListener(typ EventType) bool {
	return len(d.listeners[typ]) > 0
}

// ListenerCount returns the number of listeners registered for typ.
func (d *EventDispatcher) ListenerCount(typ EventType) int {
	return len(d.listeners[typ])
}

// RemoveAllListeners clears every listener of every type.
func (d *EventDispatcher) RemoveAllListeners() {
	d.listeners = nil
}

// DispatchEvent delivers a clone of ev to the listeners registered for its
// type. Before each listener the clone is checked: a prevented default ends
// the dispatch with false, a stopped propagation ends it with the current
// result. Returns true when the dispatch finished without a prevented
// default, including when nothing is listening.
func (d *EventDispatcher) DispatchEvent(ev Event) bool {
	if ev == nil {
		panic(fmt.Errorf("%w: DispatchEvent with nil event", ErrInvalidArgument))
	}
	if ev.Type() == "" {
		panic(fmt.Errorf("%w: DispatchEvent with empty event type", ErrInvalidArgument))
	}
	list := d.listeners[ev.Type()]
	if len(list) == 0 {
		return true
	}
	ev = ev.Clone()
	base := ev.Base()
	var target any = d
	if d.target != nil {
		target = d.target
	}
	for _, l := range list {
		if base.prevented {
			return false
		}
		if base.stopped {
			break
		}
		base.currentTarget = target
		l.fn(ev)
	}
	base.currentTarget = nil
	return !base.prevented
}
