//go:build js && wasm

package jscanvas

import (
	"syscall/js"
	"time"

	"github.com/phanxgames/arbor"
)

// FrameTicker is an arbor.Ticker backed by window.setInterval. Ticks run on
// the browser event loop.
type FrameTicker struct {
	id js.Value
	fn js.Func
}

var _ arbor.Ticker = (*FrameTicker)(nil)

func NewFrameTicker() *FrameTicker { return &FrameTicker{} }

func (t *FrameTicker) Start(interval time.Duration, tick func()) {
	t.Stop()
	t.fn = js.FuncOf(func(js.Value, []js.Value) any {
		tick()
		return nil
	})
	t.id = js.Global().Call("setInterval", t.fn, float64(interval)/float64(time.Millisecond))
}

func (t *FrameTicker) Stop() {
	if t.id.IsUndefined() {
		return
	}
	js.Global().Call("clearInterval", t.id)
	t.fn.Release()
	t.id = js.Undefined()
}
