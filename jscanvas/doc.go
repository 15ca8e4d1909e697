// Package jscanvas runs an arbor stage in a browser. It is only built for
// GOOS=js GOARCH=wasm.
//
// [Surface] draws through a CanvasRenderingContext2D, [FrameTicker] drives
// the frame loop with setInterval and [Bind] forwards the canvas's mouse
// events and the window's key events to the stage.
//
//	canvas := js.Global().Get("document").Call("getElementById", "stage")
//	surface := jscanvas.NewSurface(canvas)
//	stage := arbor.NewStage(surface, arbor.WithTicker(jscanvas.NewFrameTicker()))
//	unbind := jscanvas.Bind(stage, canvas)
//	defer unbind()
//	stage.Start()
//	select {}
package jscanvas
