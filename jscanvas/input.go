//go:build js && wasm

package jscanvas

import (
	"syscall/js"

	"github.com/phanxgames/arbor"
)

// Bind forwards mouse events on canvas and key events on the window to
// stage. Browser keyCode values are used as arbor key codes. The returned
// func removes the listeners.
func Bind(stage *arbor.Stage, canvas js.Value) (unbind func()) {
	window := js.Global()
	type listener struct {
		target js.Value
		typ    string
		fn     js.Func
	}
	var ls []listener
	on := func(target js.Value, typ string, fn func(e js.Value)) {
		f := js.FuncOf(func(_ js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		})
		target.Call("addEventListener", typ, f)
		ls = append(ls, listener{target, typ, f})
	}

	mouse := map[string]arbor.EventType{
		"mousedown": arbor.EventMouseDown,
		"mouseup":   arbor.EventMouseUp,
		"mousemove": arbor.EventMouseMove,
		"click":     arbor.EventClick,
	}
	for typ, et := range mouse {
		on(canvas, typ, func(e js.Value) {
			x, y := canvasPoint(canvas, e)
			stage.HandleMouse(et, x, y, mouseButton(e), modifiers(e))
		})
	}
	on(canvas, "contextmenu", func(e js.Value) { e.Call("preventDefault") })

	on(window, "keydown", func(e js.Value) {
		if stage.HandleKeyDown(e.Get("keyCode").Int(), modifiers(e)) {
			e.Call("preventDefault")
		}
	})
	on(window, "keyup", func(e js.Value) {
		stage.HandleKeyUp(e.Get("keyCode").Int(), modifiers(e))
	})
	on(window, "blur", func(js.Value) { stage.ReleaseAllKeys() })

	return func() {
		for _, l := range ls {
			l.target.Call("removeEventListener", l.typ, l.fn)
			l.fn.Release()
		}
		ls = nil
	}
}

// canvasPoint maps offsetX/offsetY to canvas pixels when CSS scales the
// element.
func canvasPoint(canvas, e js.Value) (float64, float64) {
	x, y := e.Get("offsetX").Float(), e.Get("offsetY").Float()
	cw, ch := canvas.Get("clientWidth").Float(), canvas.Get("clientHeight").Float()
	if cw > 0 && ch > 0 {
		x *= canvas.Get("width").Float() / cw
		y *= canvas.Get("height").Float() / ch
	}
	return x, y
}

func mouseButton(e js.Value) arbor.MouseButton {
	switch e.Get("button").Int() {
	case 1:
		return arbor.MouseButtonMiddle
	case 2:
		return arbor.MouseButtonRight
	}
	return arbor.MouseButtonLeft
}

func modifiers(e js.Value) arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if e.Get("shiftKey").Bool() {
		mods |= arbor.ModShift
	}
	if e.Get("ctrlKey").Bool() {
		mods |= arbor.ModCtrl
	}
	if e.Get("altKey").Bool() {
		mods |= arbor.ModAlt
	}
	if e.Get("metaKey").Bool() {
		mods |= arbor.ModMeta
	}
	return mods
}
