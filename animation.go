package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 properties of a DisplayObject simultaneously
// through its setters. Create one with the Tween* constructors and either
// call Update(dt) yourself or hand it to Animate.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  [4]func(float64)
	target *DisplayObject

	// OnDone, if set, runs once when every tween has finished.
	OnDone func()
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values through
// the target's setters.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.apply[i](float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// Target returns the animated object.
func (g *TweenGroup) Target() *DisplayObject { return g.target }

func (g *TweenGroup) add(from, to float64, duration float32, fn ease.TweenFunc, apply func(float64)) {
	g.tweens[g.count] = gween.New(float32(from), float32(to), duration, fn)
	g.apply[g.count] = apply
	g.count++
}

// TweenPosition animates x and y to (toX, toY).
func TweenPosition(o *DisplayObject, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(o.x, toX, duration, fn, o.SetX)
	g.add(o.y, toY, duration, fn, o.SetY)
	return g
}

// TweenScale animates scaleX and scaleY.
func TweenScale(o *DisplayObject, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(o.scaleX, toSX, duration, fn, o.SetScaleX)
	g.add(o.scaleY, toSY, duration, fn, o.SetScaleY)
	return g
}

// TweenAlpha animates alpha. SetAlpha's clamp applies to every step.
func TweenAlpha(o *DisplayObject, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(o.alpha, to, duration, fn, o.SetAlpha)
	return g
}

// TweenRotation animates rotation, in degrees.
func TweenRotation(o *DisplayObject, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: o}
	g.add(o.rotation, to, duration, fn, o.SetRotation)
	return g
}

// Animate advances g from the ENTER_FRAME events of its target, using each
// frame's delta, and unregisters itself when the group is done. The tween
// pauses while the target is off stage.
func Animate(g *TweenGroup) ListenerHandle {
	var h ListenerHandle
	h = g.target.AddEventListener(EventEnterFrame, func(e Event) {
		fe, ok := e.(*FrameEvent)
		if !ok {
			return
		}
		g.Update(float32(fe.Delta.Seconds()))
		if g.Done {
			h.Remove()
		}
	})
	return h
}
