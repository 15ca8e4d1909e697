package arbor

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// StageRoot is the frame-loop and input capability of a stage.
type StageRoot interface {
	Start()
	Stop()
	Running() bool
	SetFPS(fps float64)
	FPS() float64
	Tick()
	HandleMouse(typ EventType, x, y float64, button MouseButton, mods KeyModifiers) int
	HandleKeyDown(code int, mods KeyModifiers) bool
	HandleKeyUp(code int, mods KeyModifiers) bool
}

var _ StageRoot = (*Stage)(nil)

const defaultFPS = 60

// Stage is the root of a display list. It owns the drawing surface and the
// frame loop, and turns host input into events on the objects under the
// pointer. The stage is its own Stage(); its x, y, scale and rotation are
// ignored so that stage space is global space.
//
// Tick and the Handle* methods serialise on one mutex, so a timer goroutine
// and host input callbacks never interleave inside a frame. Listeners run
// under that mutex and must not call them or Do; they may call Start, Stop,
// SetFPS, Frame, SetDebugMode, SetTestRunner, Screenshot and the Inject*
// methods.
type Stage struct {
	*DisplayObject

	surface Surface
	ticker  Ticker
	logger  *slog.Logger
	now     func() time.Time

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	frame atomic.Uint64
	debug atomic.Bool

	// mu serialises frames and input.
	mu        sync.Mutex
	keys      Keyboard
	lastFrame time.Time
	mouse     Point
	runner    *TestRunner

	// loopMu guards the frame loop state.
	loopMu  sync.Mutex
	fps     float64
	running bool
	gen     uint64

	// queueMu guards the queues fed from listeners and other goroutines.
	queueMu         sync.Mutex
	inputQueue      []queuedInput
	screenshotQueue []string
	nextRunner      *TestRunner
	runnerChanged   bool
}

// Option configures a Stage.
type Option func(*Stage)

// WithTicker replaces the default TimerTicker.
func WithTicker(t Ticker) Option {
	return func(s *Stage) { s.ticker = t }
}

// WithFPS sets the initial frame rate. Values below 1 clamp to 1.
func WithFPS(fps float64) Option {
	return func(s *Stage) { s.fps = max(fps, 1) }
}

// WithLogger sets the logger for recovered frame panics and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stage) { s.logger = l }
}

// WithScreenshotDir sets ScreenshotDir.
func WithScreenshotDir(dir string) Option {
	return func(s *Stage) { s.ScreenshotDir = dir }
}

// WithDebug enables debug mode from construction.
func WithDebug(enabled bool) Option {
	return func(s *Stage) { s.debug.Store(enabled) }
}

// WithClock replaces time.Now for frame deltas.
func WithClock(now func() time.Time) Option {
	return func(s *Stage) { s.now = now }
}

// NewStage creates a stage drawing on surface. Panics if surface is nil.
func NewStage(surface Surface, opts ...Option) *Stage {
	if surface == nil {
		panic(fmt.Errorf("%w: NewStage with nil surface", ErrInvalidArgument))
	}
	s := &Stage{
		DisplayObject: objectDefaults(&DisplayObject{}, "stage", KindStage),
		surface:       surface,
		fps:           defaultFPS,
		ScreenshotDir: "screenshots",
	}
	s.DisplayObject.stage = s
	for _, opt := range opts {
		opt(s)
	}
	if s.ticker == nil {
		s.ticker = &TimerTicker{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Surface returns the drawing surface.
func (s *Stage) Surface() Surface { return s.surface }

// Logger returns the stage's logger.
func (s *Stage) Logger() *slog.Logger { return s.logger }

// StageWidth and StageHeight return the surface size in pixels.
func (s *Stage) StageWidth() int {
	w, _ := s.surface.Size()
	return w
}

func (s *Stage) StageHeight() int {
	_, h := s.surface.Size()
	return h
}

// Keyboard returns the key state. Read it from listeners or while no frame
// is running.
func (s *Stage) Keyboard() *Keyboard { return &s.keys }

// MouseX and MouseY return the stage position of the last mouse event.
func (s *Stage) MouseX() float64 { return s.mouse.X }
func (s *Stage) MouseY() float64 { return s.mouse.Y }

// Frame returns the number of frames ticked so far. Safe from listeners.
func (s *Stage) Frame() uint64 { return s.frame.Load() }

// --- Frame loop ---

// FPS returns the target frame rate.
func (s *Stage) FPS() float64 {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	return s.fps
}

// SetFPS changes the target frame rate, clamping to at least 1. A running
// loop is restarted at the new rate; the previous schedule is stopped first
// so loops never run twice.
func (s *Stage) SetFPS(fps float64) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	s.fps = max(fps, 1)
	if s.running {
		s.ticker.Stop()
		s.startLocked()
	}
}

// FrameInterval returns the time between frames at the current rate.
func (s *Stage) FrameInterval() time.Duration {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	return s.intervalLocked()
}

func (s *Stage) intervalLocked() time.Duration {
	return time.Duration(float64(time.Second) / s.fps)
}

// Start begins the frame loop. No-op if it is already running.
func (s *Stage) Start() {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.startLocked()
	s.logger.Debug("arbor: frame loop started", "fps", s.fps)
}

func (s *Stage) startLocked() {
	s.gen++
	gen := s.gen
	s.ticker.Start(s.intervalLocked(), func() {
		s.loopMu.Lock()
		current := s.running && s.gen == gen
		s.loopMu.Unlock()
		if current {
			s.Tick()
		}
	})
}

// Stop ends the frame loop. Safe to call when stopped, and from listeners.
func (s *Stage) Stop() {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	s.ticker.Stop()
	s.logger.Debug("arbor: frame loop stopped")
}

// Running reports whether the frame loop is active.
func (s *Stage) Running() bool {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	return s.running
}

// Tick runs one frame: advance the test runner, apply one queued input
// event, clear the surface, render the display list, broadcast ENTER_FRAME,
// then write queued screenshots. A panic inside the frame is recovered and
// logged so the loop keeps running.
func (s *Stage) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := s.frame.Add(1)
	defer s.recoverFrame(frame)

	now := s.now()
	var delta time.Duration
	if !s.lastFrame.IsZero() {
		delta = now.Sub(s.lastFrame)
	}
	s.lastFrame = now

	var stats debugStats
	mark := time.Now()

	s.applyPendingRunner()
	if s.runner != nil {
		s.runner.step(s)
	}
	s.processQueuedInput()
	stats.inputTime = time.Since(mark)

	mark = time.Now()
	w, h := s.surface.Size()
	s.surface.ClearRect(0, 0, float64(w), float64(h))
	stats.painted = renderProcess(s.DisplayObject, s.surface, identityTransform, 1)
	stats.renderTime = time.Since(mark)

	mark = time.Now()
	broadcastEvent(s.DisplayObject, &FrameEvent{
		BaseEvent: MakeEvent(EventEnterFrame),
		Frame:     frame,
		Delta:     delta,
	})
	stats.enterFrameTime = time.Since(mark)

	s.flushScreenshots()

	if s.debug.Load() {
		s.debugLog(stats)
	}
}

// recoverFrame catches panics that escape the per-object recovery in the
// render walk and broadcasts, such as one raised by a test runner step.
func (s *Stage) recoverFrame(frame uint64) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.Error("arbor: recovered panic in frame", "frame", frame, "panic", r)
	if rs, ok := s.surface.(interface{ ResetState() }); ok {
		rs.ResetState()
	}
}

// Do runs fn while holding the frame lock, so it cannot interleave with a
// tick or an input callback. fn must not call Tick or the Handle* methods.
func (s *Stage) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// SetDebugMode enables or disables debug mode. When enabled, frame timings
// are logged at debug level and tree depth and width warnings are emitted.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug.Store(enabled)
}

// logListenerPanic logs a panic raised by a listener on o, through o's
// stage logger when o is on a stage.
func logListenerPanic(o *DisplayObject, typ EventType, r any) {
	logger := slog.Default()
	if o.stage != nil {
		logger = o.stage.logger
	}
	logger.Error("arbor: recovered panic in listener",
		"object", o.name, "event", string(typ), "panic", r)
}

// --- Input ---

// HandleMouse resolves the stage point (x, y) to every object under it and
// dispatches a MouseEvent of type typ to each mouse-enabled hit, back to
// front, with coordinates local to that object. Returns the number of
// objects the event was delivered to. Use it for host input that arrives
// outside the frame loop; queued input goes through InjectMouse.
func (s *Stage) HandleMouse(typ EventType, x, y float64, button MouseButton, mods KeyModifiers) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchMouse(typ, x, y, button, mods)
}

// HandleClick is HandleMouse for a left-button CLICK.
func (s *Stage) HandleClick(x, y float64, mods KeyModifiers) int {
	return s.HandleMouse(EventClick, x, y, MouseButtonLeft, mods)
}

func (s *Stage) dispatchMouse(typ EventType, x, y float64, button MouseButton, mods KeyModifiers) int {
	p := Point{x, y}
	s.mouse = p
	delivered := 0
	for _, o := range s.GetObjectsUnderPoint(p) {
		if !o.mouseEnabled || o.stage != s {
			continue
		}
		lp, err := o.GlobalToLocal(p)
		if err != nil {
			continue
		}
		o.DispatchEvent(&MouseEvent{
			BaseEvent: MakeEvent(typ),
			StageX:    x,
			StageY:    y,
			LocalX:    lp.X,
			LocalY:    lp.Y,
			Button:    button,
			Modifiers: mods,
		})
		delivered++
	}
	return delivered
}

// HandleKeyDown records code as held and dispatches KEY_DOWN on the stage.
// Returns false, dispatching nothing, if the key was already down.
func (s *Stage) HandleKeyDown(code int, mods KeyModifiers) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchKey(EventKeyDown, code, mods)
}

// HandleKeyUp records code as released and dispatches KEY_UP on the stage.
// Returns false, dispatching nothing, if the key was not down.
func (s *Stage) HandleKeyUp(code int, mods KeyModifiers) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchKey(EventKeyUp, code, mods)
}

func (s *Stage) dispatchKey(typ EventType, code int, mods KeyModifiers) bool {
	var changed bool
	if typ == EventKeyDown {
		changed = s.keys.press(code)
	} else {
		changed = s.keys.release(code)
	}
	if !changed {
		return false
	}
	s.DispatchEvent(&KeyboardEvent{
		BaseEvent: MakeEvent(typ),
		KeyCode:   code,
		Modifiers: mods,
	})
	return true
}

// ReleaseAllKeys dispatches KEY_UP for every held key, for hosts that lose
// focus.
func (s *Stage) ReleaseAllKeys() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range s.keys.Pressed() {
		s.dispatchKey(EventKeyUp, code, 0)
	}
	s.keys.reset()
}
