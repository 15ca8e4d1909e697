// Package arbor is a retained-mode 2D display list in the style of the Flash
// display API.
//
// A [Stage] owns a [Surface] and a frame loop. Display objects form a tree
// under it; each frame the stage clears the surface, paints the tree back
// to front and broadcasts [EventEnterFrame]. Mouse input is resolved with
// [DisplayObject.GetObjectsUnderPoint] and delivered as a [MouseEvent] to
// every object under the pointer.
//
// # Quick start
//
//	surface := arbor.NewImageSurface(640, 480)
//	stage := arbor.NewStage(surface, arbor.WithFPS(30))
//
//	box := arbor.NewSprite("box")
//	box.Graphics().FillRect(0, 0, 80, 40, arbor.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	box.SetPosition(100, 50)
//	box.AddEventListener(arbor.EventClick, func(e arbor.Event) {
//		me := e.(*arbor.MouseEvent)
//		fmt.Println("clicked at", me.LocalX, me.LocalY)
//	})
//	stage.AddChild(box)
//	stage.Start()
//
// For a window use the ebitenhost package, which implements [Surface] and
// [Ticker] on top of [Ebitengine]. In a browser use jscanvas.
//
// # Display list
//
// Every element is a [DisplayObject]. Create them with [NewDisplayObject]
// (a leaf), [NewContainer], [NewSprite] (a container with [Graphics]) and
// [NewBitmap]. Children inherit their parent's transform and alpha.
// Positions are in the parent's space, rotation is in degrees.
//
// Adding an object to a container detaches it from its previous parent.
// [EventAdded] and [EventRemoved] fire on the object itself;
// [EventAddedToStage] and [EventRemovedFromStage] are broadcast to the whole
// subtree when it joins or leaves a stage.
//
// # Events
//
// [EventDispatcher] calls listeners in registration order. There is no
// capture or bubbling phase. A listener may call PreventDefault, which ends
// the dispatch and makes DispatchEvent return false, or StopPropagation,
// which skips the remaining listeners.
//
// # Errors
//
// Programmer errors (an empty event type, a nil child, a cycle) panic with
// an error wrapping [ErrInvalidArgument]. Tree queries return nil, -1 or
// false; index and lookup failures on mutations return errors wrapping
// [ErrIndexOutOfRange] or [ErrNotFound]. Coordinate conversion off stage
// fails with [ErrNoStage].
//
// [Ebitengine]: https://ebitengine.org
package arbor
