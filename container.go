package arbor

import (
	"fmt"
	"slices"
)

// --- Tree manipulation ---

// AddChild appends child to this container and returns it.
// Same reparenting and validation as AddChildAt.
func (o *DisplayObject) AddChild(child *DisplayObject) *DisplayObject {
	// len(o.children) is always a valid index, so the error is unreachable
	// once the panicking checks pass.
	c, _ := o.AddChildAt(child, o.NumChildren())
	return c
}

// AddChildAt inserts child at index. If child already has a parent it is
// detached first; a child of this container is only moved and no events
// fire. ADDED then, when the container is stage-rooted, ADDED_TO_STAGE are
// dispatched on the child.
//
// Returns an error wrapping ErrIndexOutOfRange unless 0 <= index <=
// NumChildren. Panics if child is nil, is a stage, is an ancestor of o, or
// if o cannot hold children.
func (o *DisplayObject) AddChildAt(child *DisplayObject, index int) (*DisplayObject, error) {
	o.mustContainer("AddChildAt")
	if child == nil {
		panic(fmt.Errorf("%w: cannot add nil child", ErrInvalidArgument))
	}
	if child.kind == KindStage {
		panic(fmt.Errorf("%w: cannot add a stage as a child", ErrInvalidArgument))
	}
	if isAncestor(child, o) {
		panic(fmt.Errorf("%w: adding %s to %s would create a cycle", ErrInvalidArgument, child, o))
	}
	if index < 0 || index > len(o.children) {
		return nil, fmt.Errorf("%w: AddChildAt(%d) on %s with %d children",
			ErrIndexOutOfRange, index, o, len(o.children))
	}

	if child.parent == o {
		o.removeChildByPtr(child)
		o.insertChild(child, min(index, len(o.children)))
		return child, nil
	}

	if child.parent != nil {
		child.parent.detachChild(child)
	}
	child.parent = o
	o.insertChild(child, index)
	if o.stage != nil {
		setStage(child, o.stage)
	}
	child.DispatchEvent(NewEvent(EventAdded))
	if o.stage != nil && child.parent == o {
		broadcastEvent(child, NewEvent(EventAddedToStage))
	}
	if o.stage != nil && o.stage.debug.Load() {
		o.stage.debugCheckTreeDepth(child)
		o.stage.debugCheckChildCount(o)
	}
	return child, nil
}

// RemoveChild detaches child. Returns false if child is not a child of o.
func (o *DisplayObject) RemoveChild(child *DisplayObject) bool {
	if child == nil || child.parent != o {
		return false
	}
	o.detachChild(child)
	return true
}

// RemoveChildAt detaches and returns the child at index, or nil when the
// index is out of range.
func (o *DisplayObject) RemoveChildAt(index int) *DisplayObject {
	if index < 0 || index >= len(o.children) {
		return nil
	}
	child := o.children[index]
	o.detachChild(child)
	return child
}

// RemoveChildren detaches every child, last first.
func (o *DisplayObject) RemoveChildren() {
	for i := len(o.children) - 1; i >= 0; i-- {
		if i < len(o.children) {
			o.detachChild(o.children[i])
		}
	}
}

// RemoveFromParent detaches o from its parent.
// No-op if o has no parent.
func (o *DisplayObject) RemoveFromParent() {
	if o.parent == nil {
		return
	}
	o.parent.RemoveChild(o)
}

// --- Queries ---

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (o *DisplayObject) Children() []*DisplayObject {
	return o.children
}

// NumChildren returns the number of children.
func (o *DisplayObject) NumChildren() int {
	return len(o.children)
}

// GetChildAt returns the child at index, or nil when out of range.
func (o *DisplayObject) GetChildAt(index int) *DisplayObject {
	if index < 0 || index >= len(o.children) {
		return nil
	}
	return o.children[index]
}

// GetChildIndex returns the index of child, or -1 if it is not a child of o.
func (o *DisplayObject) GetChildIndex(child *DisplayObject) int {
	if child == nil || child.parent != o {
		return -1
	}
	return slices.Index(o.children, child)
}

// GetChildByName returns the first child with the given name, or nil.
func (o *DisplayObject) GetChildByName(name string) *DisplayObject {
	for _, c := range o.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Contains reports whether d is o itself or one of its descendants.
func (o *DisplayObject) Contains(d *DisplayObject) bool {
	if d == nil {
		return false
	}
	return isAncestor(o, d)
}

// --- Reordering ---

// SetChildIndex moves child to index among its siblings.
// Returns an error wrapping ErrNotFound if child is not a child of o, or
// ErrIndexOutOfRange unless 0 <= index < NumChildren.
func (o *DisplayObject) SetChildIndex(child *DisplayObject, index int) error {
	oldIndex := o.GetChildIndex(child)
	if oldIndex < 0 {
		return fmt.Errorf("%w: SetChildIndex: %v is not a child of %s", ErrNotFound, child, o)
	}
	nc := len(o.children)
	if index < 0 || index >= nc {
		return fmt.Errorf("%w: SetChildIndex(%d) on %s with %d children", ErrIndexOutOfRange, index, o, nc)
	}
	if oldIndex == index {
		return nil
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(o.children[oldIndex:], o.children[oldIndex+1:index+1])
	} else {
		copy(o.children[index+1:], o.children[index:oldIndex])
	}
	o.children[index] = child
	return nil
}

// SwapChildren exchanges the positions of a and b. Returns false, changing
// nothing, unless both are children of o.
func (o *DisplayObject) SwapChildren(a, b *DisplayObject) bool {
	return o.SwapChildrenAt(o.GetChildIndex(a), o.GetChildIndex(b))
}

// SwapChildrenAt exchanges the children at i and j. Returns false, changing
// nothing, if either index is out of range.
func (o *DisplayObject) SwapChildrenAt(i, j int) bool {
	n := len(o.children)
	if i < 0 || i >= n || j < 0 || j >= n {
		return false
	}
	o.children[i], o.children[j] = o.children[j], o.children[i]
	return true
}

// --- Helpers ---

func (o *DisplayObject) mustContainer(op string) {
	if !o.kind.IsContainer() {
		panic(fmt.Errorf("%w: %s on %s, which cannot hold children", ErrInvalidArgument, op, o))
	}
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *DisplayObject) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (o *DisplayObject) insertChild(child *DisplayObject, index int) {
	o.children = slices.Insert(o.children, index, child)
}

// removeChildByPtr removes child from o.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (o *DisplayObject) removeChildByPtr(child *DisplayObject) {
	for i, c := range o.children {
		if c == child {
			copy(o.children[i:], o.children[i+1:])
			o.children[len(o.children)-1] = nil
			o.children = o.children[:len(o.children)-1]
			return
		}
	}
}

// detachChild unlinks child, clears its parent and stage references, and
// dispatches REMOVED then, if it was stage-rooted, REMOVED_FROM_STAGE.
func (o *DisplayObject) detachChild(child *DisplayObject) {
	wasOnStage := child.stage != nil
	o.removeChildByPtr(child)
	child.parent = nil
	if wasOnStage {
		setStage(child, nil)
	}
	child.DispatchEvent(NewEvent(EventRemoved))
	if wasOnStage && child.parent == nil {
		broadcastEvent(child, NewEvent(EventRemovedFromStage))
	}
}

// setStage assigns the stage reference on o and every descendant.
func setStage(o *DisplayObject, s *Stage) {
	o.stage = s
	for _, c := range o.children {
		setStage(c, s)
	}
}

// broadcastEvent dispatches ev on o and then, depth first, on every
// descendant. Each level iterates a snapshot of its child list and skips
// children detached earlier in the same broadcast. A panicking listener is
// logged and the broadcast continues with the next object.
func broadcastEvent(o *DisplayObject, ev Event) {
	dispatchRecovered(o, ev)
	if len(o.children) == 0 {
		return
	}
	snapshot := slices.Clone(o.children)
	for _, c := range snapshot {
		if c.parent != o {
			continue
		}
		broadcastEvent(c, ev)
	}
}

// dispatchRecovered dispatches ev on o, logging instead of propagating a
// listener panic.
func dispatchRecovered(o *DisplayObject, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logListenerPanic(o, ev.Type(), r)
		}
	}()
	o.DispatchEvent(ev)
}

// BroadcastEvent dispatches ev on o and all of its descendants, parent
// before children. Listener panics are logged and do not stop the
// broadcast.
func (o *DisplayObject) BroadcastEvent(ev Event) {
	broadcastEvent(o, ev)
}
