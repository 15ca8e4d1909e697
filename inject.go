package arbor

// queuedInput is one frame's worth of synthetic input. A mouse entry
// dispatches each of its types in order at the same point.
type queuedInput struct {
	mouse   bool
	types   []EventType
	x, y    float64
	button  MouseButton
	keyCode int
	mods    KeyModifiers
}

// InjectMouse queues a mouse event at stage coordinates (x, y). It is
// dispatched at the start of a later frame, one queued entry per frame.
// Safe to call from any goroutine and from listeners.
func (s *Stage) InjectMouse(typ EventType, x, y float64, button MouseButton, mods KeyModifiers) {
	s.enqueue(queuedInput{mouse: true, types: []EventType{typ}, x: x, y: y, button: button, mods: mods})
}

// InjectClick queues a left-button press followed, on the next frame, by the
// release and the click at the same point. Consumes two frames.
func (s *Stage) InjectClick(x, y float64) {
	s.enqueue(queuedInput{mouse: true, types: []EventType{EventMouseDown}, x: x, y: y})
	s.enqueue(queuedInput{mouse: true, types: []EventType{EventMouseUp, EventClick}, x: x, y: y})
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over frames-2 intermediate frames, and a release at (toX, toY). The total
// sequence consumes `frames` frames. Minimum frames is 2 (press + release).
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.enqueue(queuedInput{mouse: true, types: []EventType{EventMouseDown}, x: fromX, y: fromY})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		s.enqueue(queuedInput{mouse: true, types: []EventType{EventMouseMove}, x: x, y: y})
	}
	s.enqueue(queuedInput{mouse: true, types: []EventType{EventMouseUp}, x: toX, y: toY})
}

// InjectKey queues a key press and, on the next frame, its release.
// Consumes two frames.
func (s *Stage) InjectKey(code int, mods KeyModifiers) {
	s.enqueue(queuedInput{types: []EventType{EventKeyDown}, keyCode: code, mods: mods})
	s.enqueue(queuedInput{types: []EventType{EventKeyUp}, keyCode: code, mods: mods})
}

// PendingInput returns the number of queued entries not yet dispatched.
func (s *Stage) PendingInput() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.inputQueue)
}

func (s *Stage) enqueue(in queuedInput) {
	s.queueMu.Lock()
	s.inputQueue = append(s.inputQueue, in)
	s.queueMu.Unlock()
}

// processQueuedInput pops one entry from the queue and dispatches it.
// Called from Tick with the frame lock held. Returns true if an entry was
// consumed.
func (s *Stage) processQueuedInput() bool {
	s.queueMu.Lock()
	if len(s.inputQueue) == 0 {
		s.queueMu.Unlock()
		return false
	}
	in := s.inputQueue[0]
	copy(s.inputQueue, s.inputQueue[1:])
	s.inputQueue[len(s.inputQueue)-1] = queuedInput{}
	s.inputQueue = s.inputQueue[:len(s.inputQueue)-1]
	s.queueMu.Unlock()

	for _, typ := range in.types {
		if in.mouse {
			s.dispatchMouse(typ, in.x, in.y, in.button, in.mods)
		} else {
			s.dispatchKey(typ, in.keyCode, in.mods)
		}
	}
	return true
}
