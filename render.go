package arbor

import "slices"

// PreRender saves the surface state and applies o's cumulative transform and
// alpha, as computed by the current render traversal.
func (o *DisplayObject) PreRender(s Surface) {
	s.Save()
	m := o.worldTransform
	s.SetTransform(m[0], m[1], m[2], m[3], m[4], m[5])
	s.SetGlobalAlpha(o.worldAlpha)
}

// Render paints o in its local space: a sprite replays its Graphics, a
// bitmap draws its image, then a RENDER event is dispatched so listeners can
// draw on top.
func (o *DisplayObject) Render(s Surface) {
	if o.graphics != nil {
		o.graphics.replay(s)
	}
	if o.kind == KindBitmap && o.image != nil {
		s.DrawImage(o.image, 0, 0)
	}
	if o.HasEventListener(EventRender) {
		o.DispatchEvent(&RenderEvent{BaseEvent: MakeEvent(EventRender), Surface: s})
	}
}

// PostRender restores the surface state saved by PreRender, so no transform
// or alpha leaks into the next sibling.
func (o *DisplayObject) PostRender(s Surface) {
	s.Restore()
}

// renderProcess paints o and its subtree. The object's own paint comes
// first, so a container's content sits beneath its children, which follow
// in index order. Invisible subtrees are skipped. Returns the number of
// objects painted.
func renderProcess(o *DisplayObject, s Surface, parent [6]float64, parentAlpha float64) int {
	if !o.visible {
		return 0
	}
	if o.kind == KindStage {
		o.worldTransform = identityTransform
		o.worldAlpha = 1
	} else {
		o.worldTransform = multiplyAffine(parent, computeLocalTransform(o))
		o.worldAlpha = parentAlpha * o.alpha
	}

	paintObject(o, s)

	painted := 1
	if len(o.children) == 0 {
		return painted
	}
	// Listeners may mutate the tree while painting.
	for _, child := range slices.Clone(o.children) {
		if child.parent != o {
			continue
		}
		painted += renderProcess(child, s, o.worldTransform, o.worldAlpha)
	}
	return painted
}

// stateDepther is implemented by surfaces that report their saved-state
// depth, such as those embedding StateStack.
type stateDepther interface {
	Depth() int
}

// paintObject runs o's PreRender, Render and PostRender. A panic in a RENDER
// listener is logged and the surface is unwound to its depth before
// PreRender, so the walk goes on with o's children and siblings.
func paintObject(o *DisplayObject, s Surface) {
	depth := -1
	if d, ok := s.(stateDepther); ok {
		depth = d.Depth()
	}
	saved := false
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch d, ok := s.(stateDepther); {
		case ok:
			for d.Depth() > depth {
				s.Restore()
			}
		case saved:
			s.Restore()
		}
		logListenerPanic(o, EventRender, r)
	}()

	o.PreRender(s)
	saved = true
	o.Render(s)
	saved = false
	o.PostRender(s)
}

// Draw paints o and its subtree on s, positioned by o's ancestors. It is the
// traversal the stage runs every frame and is useful for offscreen captures.
func (o *DisplayObject) Draw(s Surface) int {
	parent, alpha := identityTransform, 1.0
	if o.parent != nil {
		parent, _ = toRootSpace(o.parent)
		for p := o.parent; p != nil && p.kind != KindStage; p = p.parent {
			alpha *= p.alpha
		}
	}
	return renderProcess(o, s, parent, alpha)
}
