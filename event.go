package arbor

import "time"

// EventType names a kind of event. Any non-empty string is valid; the
// package defines the types it dispatches itself.
type EventType string

const (
	EventAdded            EventType = "added"            // object was attached to a container
	EventAddedToStage     EventType = "addedToStage"     // object's subtree became stage-rooted
	EventRemoved          EventType = "removed"          // object was detached from its container
	EventRemovedFromStage EventType = "removedFromStage" // object's subtree left the stage
	EventEnterFrame       EventType = "enterFrame"       // broadcast once per frame after rendering
	EventRender           EventType = "render"           // fired on each object while it paints
	EventComplete         EventType = "complete"         // library finished loading
	EventClick            EventType = "click"
	EventMouseDown        EventType = "mouseDown"
	EventMouseUp          EventType = "mouseUp"
	EventMouseMove        EventType = "mouseMove"
	EventKeyDown          EventType = "keyDown"
	EventKeyUp            EventType = "keyUp"
)

// Event is implemented by every event passed through an EventDispatcher.
// Custom events embed BaseEvent and override Clone so that dispatch keeps
// their concrete type.
type Event interface {
	Type() EventType
	PreventDefault()
	IsDefaultPrevented() bool
	StopPropagation()
	IsPropagationStopped() bool
	// CurrentTarget is the owner of the dispatcher currently running
	// listeners, usually a *DisplayObject.
	CurrentTarget() any
	// Base exposes the embedded BaseEvent for dispatch bookkeeping.
	Base() *BaseEvent
	// Clone returns a copy with the prevented and stopped flags reset.
	Clone() Event
}

// BaseEvent carries the state shared by all events.
type BaseEvent struct {
	typ           EventType
	prevented     bool
	stopped       bool
	currentTarget any
}

// MakeEvent returns a BaseEvent of the given type, for embedding in custom
// event structs.
func MakeEvent(typ EventType) BaseEvent {
	return BaseEvent{typ: typ}
}

// NewEvent returns a plain event of the given type.
func NewEvent(typ EventType) *BaseEvent {
	e := MakeEvent(typ)
	return &e
}

func (e *BaseEvent) Type() EventType            { return e.typ }
func (e *BaseEvent) PreventDefault()            { e.prevented = true }
func (e *BaseEvent) IsDefaultPrevented() bool   { return e.prevented }
func (e *BaseEvent) StopPropagation()           { e.stopped = true }
func (e *BaseEvent) IsPropagationStopped() bool { return e.stopped }
func (e *BaseEvent) CurrentTarget() any         { return e.currentTarget }
func (e *BaseEvent) Base() *BaseEvent           { return e }

// CurrentObject returns the current target as a display object, or nil when
// the dispatcher belongs to something else.
func (e *BaseEvent) CurrentObject() *DisplayObject {
	o, _ := e.currentTarget.(*DisplayObject)
	return o
}

func (e *BaseEvent) reset() {
	e.prevented = false
	e.stopped = false
	e.currentTarget = nil
}

func (e *BaseEvent) Clone() Event {
	c := *e
	c.reset()
	return &c
}

// Alt, Ctrl, Shift and Command report individual modifier keys.
func (m KeyModifiers) Alt() bool     { return m&ModAlt != 0 }
func (m KeyModifiers) Ctrl() bool    { return m&ModCtrl != 0 }
func (m KeyModifiers) Shift() bool   { return m&ModShift != 0 }
func (m KeyModifiers) Command() bool { return m&ModMeta != 0 }

// MouseEvent is dispatched to every object under the pointer.
type MouseEvent struct {
	BaseEvent
	StageX, StageY float64 // stage (global) coordinates
	LocalX, LocalY float64 // coordinates in the receiving object's space
	Button         MouseButton
	Modifiers      KeyModifiers
}

func (e *MouseEvent) Clone() Event {
	c := *e
	c.reset()
	return &c
}

// KeyboardEvent is dispatched on the stage for key transitions.
type KeyboardEvent struct {
	BaseEvent
	KeyCode   int
	Modifiers KeyModifiers
}

func (e *KeyboardEvent) Clone() Event {
	c := *e
	c.reset()
	return &c
}

// FrameEvent is broadcast as ENTER_FRAME after each render pass.
type FrameEvent struct {
	BaseEvent
	Frame uint64        // 1-based frame counter
	Delta time.Duration // time since the previous frame; zero on the first
}

func (e *FrameEvent) Clone() Event {
	c := *e
	c.reset()
	return &c
}

// RenderEvent is dispatched on an object while its transform is applied to
// Surface, so listeners paint in the object's local space.
type RenderEvent struct {
	BaseEvent
	Surface Surface
}

func (e *RenderEvent) Clone() Event {
	c := *e
	c.reset()
	return &c
}
