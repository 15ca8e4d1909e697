package arbor

import (
	"bytes"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// keepAllTicker remembers every tick function it was started with, so tests
// can fire a stale schedule after a restart.
type keepAllTicker struct {
	ticks []func()
	stops int
}

func (k *keepAllTicker) Start(_ time.Duration, tick func()) { k.ticks = append(k.ticks, tick) }
func (k *keepAllTicker) Stop()                              { k.stops++ }

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestNewStageDefaults(t *testing.T) {
	stage, _, _ := newTestStage()
	if stage.Name() != "stage" || stage.Kind() != KindStage {
		t.Errorf("stage = %v", stage)
	}
	if stage.Stage() != stage {
		t.Error("the stage is its own Stage")
	}
	if stage.FPS() != 60 {
		t.Errorf("FPS = %v, want 60", stage.FPS())
	}
	if stage.StageWidth() != 200 || stage.StageHeight() != 100 {
		t.Errorf("size = %dx%d, want 200x100", stage.StageWidth(), stage.StageHeight())
	}
	if stage.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q", stage.ScreenshotDir)
	}
	if stage.Running() {
		t.Error("a new stage is stopped")
	}
	if _, ok := stage.ticker.(*ManualTicker); !ok {
		t.Errorf("ticker = %T, want the injected ManualTicker", stage.ticker)
	}
	if _, ok := NewStage(NewRecordingSurface(1, 1)).ticker.(*TimerTicker); !ok {
		t.Error("default ticker should be a TimerTicker")
	}
}

func TestNewStageNilSurfacePanics(t *testing.T) {
	assertPanicsWith(t, ErrInvalidArgument, func() { NewStage(nil) })
}

func TestWithFPSClamps(t *testing.T) {
	stage := NewStage(NewRecordingSurface(1, 1), WithFPS(0))
	if stage.FPS() != 1 {
		t.Errorf("FPS = %v, want 1", stage.FPS())
	}
	if stage.FrameInterval() != time.Second {
		t.Errorf("FrameInterval = %v, want 1s", stage.FrameInterval())
	}
}

// --- Frame loop ---

func TestStartStopIdempotent(t *testing.T) {
	stage, _, ticker := newTestStage()
	stage.Start()
	stage.Start()
	if ticker.Starts() != 1 {
		t.Errorf("Starts = %d, want 1", ticker.Starts())
	}
	if !stage.Running() || ticker.Interval() != stage.FrameInterval() {
		t.Error("ticker should run at the frame interval")
	}
	if n := ticker.Advance(3); n != 3 || stage.Frame() != 3 {
		t.Errorf("Advance = %d, Frame = %d, want 3 and 3", n, stage.Frame())
	}

	stage.Stop()
	stage.Stop()
	if stage.Running() || ticker.Running() {
		t.Error("Stop should halt the loop")
	}
	if n := ticker.Advance(3); n != 0 {
		t.Errorf("stopped loop fired %d ticks", n)
	}
}

func TestSetFPSRestartsRunningLoop(t *testing.T) {
	stage, _, ticker := newTestStage()
	stage.SetFPS(30)
	if ticker.Starts() != 0 {
		t.Error("SetFPS on a stopped stage should not start it")
	}
	stage.Start()
	stage.SetFPS(-5)
	if stage.FPS() != 1 {
		t.Errorf("FPS = %v, want 1", stage.FPS())
	}
	if ticker.Starts() != 2 || ticker.Interval() != time.Second {
		t.Errorf("Starts = %d, Interval = %v", ticker.Starts(), ticker.Interval())
	}
	ticker.Advance(1)
	if stage.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", stage.Frame())
	}
}

func TestStaleScheduleDoesNotTick(t *testing.T) {
	tk := &keepAllTicker{}
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(tk))
	stage.Start()
	stage.SetFPS(10)
	if len(tk.ticks) != 2 || tk.stops != 1 {
		t.Fatalf("ticks = %d, stops = %d, want 2 and 1", len(tk.ticks), tk.stops)
	}

	tk.ticks[0]()
	if stage.Frame() != 0 {
		t.Error("the replaced schedule must not tick")
	}
	tk.ticks[1]()
	if stage.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", stage.Frame())
	}

	stage.Stop()
	tk.ticks[1]()
	if stage.Frame() != 1 {
		t.Error("a stopped loop must not tick")
	}
}

func TestStopFromListener(t *testing.T) {
	stage, _, ticker := newTestStage()
	stage.AddEventListener(EventEnterFrame, func(e Event) {
		if e.(*FrameEvent).Frame == 2 {
			stage.Stop()
		}
	})
	stage.Start()
	if n := ticker.Advance(5); n != 2 {
		t.Errorf("fired %d ticks, want 2", n)
	}
}

func TestTimerTickerTicks(t *testing.T) {
	var tk TimerTicker
	var count atomic.Int32
	done := make(chan struct{})
	tk.Start(time.Millisecond, func() {
		if count.Add(1) == 3 {
			close(done)
		}
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer ticker did not tick")
	}
	tk.Stop()
	tk.Stop()
}

// --- Tick ---

func TestTickOrder(t *testing.T) {
	stage, _, _ := newTestStage()
	obj := stage.AddChild(NewDisplayObject("obj"))
	obj.SetSize(10, 10)

	var order []string
	obj.AddEventListener(EventMouseDown, func(Event) { order = append(order, "input") })
	obj.AddEventListener(EventRender, func(Event) { order = append(order, "render") })
	obj.AddEventListener(EventEnterFrame, func(Event) { order = append(order, "enterFrame") })

	stage.InjectMouse(EventMouseDown, 5, 5, MouseButtonLeft, 0)
	stage.Tick()
	assertStrings(t, "order", order, "input", "render", "enterFrame")
}

func TestEnterFrameBroadcast(t *testing.T) {
	stage, _, _ := newTestStage()
	group := stage.AddChild(NewContainer("group"))
	leaf := group.AddChild(NewDisplayObject("leaf"))
	offstage := NewDisplayObject("offstage")

	var got []string
	for _, o := range []*DisplayObject{stage.DisplayObject, group, leaf, offstage} {
		o.AddEventListener(EventEnterFrame, func(Event) { got = append(got, o.Name()) })
	}
	stage.Tick()
	assertStrings(t, "receivers", got, "stage", "group", "leaf")
}

func TestFrameEventDelta(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 20 * time.Millisecond)
	}
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(&ManualTicker{}), WithClock(clock))

	var frames []*FrameEvent
	stage.AddEventListener(EventEnterFrame, func(e Event) { frames = append(frames, e.(*FrameEvent)) })
	stage.Tick()
	stage.Tick()

	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if frames[0].Frame != 1 || frames[0].Delta != 0 {
		t.Errorf("first frame = %d/%v, want 1/0", frames[0].Frame, frames[0].Delta)
	}
	if frames[1].Frame != 2 || frames[1].Delta != 20*time.Millisecond {
		t.Errorf("second frame = %d/%v, want 2/20ms", frames[1].Frame, frames[1].Delta)
	}
}

func TestTickRecoversPanic(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	rec := NewRecordingSurface(10, 10)
	stage := NewStage(rec, WithTicker(&ManualTicker{}), WithLogger(logger))
	bomb := stage.AddChild(NewDisplayObject("bomb"))
	armed := true
	bomb.AddEventListener(EventRender, func(Event) {
		if armed {
			armed = false
			panic("boom")
		}
	})

	stage.Tick()
	if !strings.Contains(buf.String(), "recovered panic") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("log = %q, want the recovered panic", buf.String())
	}
	if rec.Depth() != 0 {
		t.Errorf("surface Depth = %d after recovery, want 0", rec.Depth())
	}

	var entered bool
	stage.AddEventListener(EventEnterFrame, func(Event) { entered = true })
	stage.Tick()
	if !entered || stage.Frame() != 2 {
		t.Error("the loop should keep running after a recovered panic")
	}
}

func TestEnterFramePanicKeepsLaterObjectsRunning(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(&ManualTicker{}), WithLogger(logger))
	a := stage.AddChild(NewDisplayObject("a"))
	b := stage.AddChild(NewDisplayObject("b"))
	a.AddEventListener(EventEnterFrame, func(Event) { panic("broken a") })
	var bFrames int
	b.AddEventListener(EventEnterFrame, func(Event) { bFrames++ })

	for range 5 {
		stage.Tick()
	}
	if bFrames != 5 {
		t.Errorf("b received ENTER_FRAME %d times, want 5", bFrames)
	}
	if got := strings.Count(buf.String(), "recovered panic in listener"); got != 5 {
		t.Errorf("logged %d listener panics, want 5; log = %q", got, buf.String())
	}
	if !strings.Contains(buf.String(), "object=a") || strings.Contains(buf.String(), "panic in frame") {
		t.Errorf("log = %q, want per-object recovery naming a", buf.String())
	}
}

func TestRenderPanicKeepsFrameRunning(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	rec := NewRecordingSurface(10, 10)
	stage := NewStage(rec, WithTicker(&ManualTicker{}), WithLogger(logger))
	a := stage.AddChild(NewDisplayObject("a"))
	b := stage.AddChild(NewDisplayObject("b"))
	a.AddEventListener(EventRender, func(e Event) {
		// Leave an extra state on the stack before failing.
		e.(*RenderEvent).Surface.Save()
		panic("broken render")
	})
	var bRenders, entered int
	b.AddEventListener(EventRender, func(Event) { bRenders++ })
	stage.AddEventListener(EventEnterFrame, func(Event) { entered++ })
	stage.Screenshot("after-panic")

	for i := range 5 {
		stage.Tick()
		if rec.Depth() != 0 {
			t.Fatalf("tick %d: surface Depth = %d, want 0", i+1, rec.Depth())
		}
	}
	if bRenders != 5 || entered != 5 {
		t.Errorf("b rendered %d times, stage ENTER_FRAME ran %d times, want 5 and 5", bRenders, entered)
	}
	if !strings.Contains(buf.String(), "event=render") || !strings.Contains(buf.String(), "object=a") {
		t.Errorf("log = %q, want the render panic on a", buf.String())
	}
	if !strings.Contains(buf.String(), "screenshot") || len(stage.screenshotQueue) != 0 {
		t.Error("queued screenshots should still be flushed after a render panic")
	}
}

func TestListenerMayReadFrame(t *testing.T) {
	stage, _, _ := newTestStage()
	var seen []uint64
	stage.AddEventListener(EventEnterFrame, func(e Event) {
		if stage.Frame() != e.(*FrameEvent).Frame {
			t.Errorf("Frame() = %d inside frame %d", stage.Frame(), e.(*FrameEvent).Frame)
		}
		seen = append(seen, stage.Frame())
	})

	done := make(chan struct{})
	go func() {
		stage.Tick()
		stage.Tick()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Tick did not return when a listener called Frame")
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("frames seen = %v, want [1 2]", seen)
	}
}

func TestListenerMayToggleDebugAndRunner(t *testing.T) {
	stage, pad := newInjectStage()
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 15, "y": 15}]}`))
	if err != nil {
		t.Fatal(err)
	}
	var attached bool
	stage.AddEventListener(EventEnterFrame, func(Event) {
		if !attached {
			attached = true
			stage.SetDebugMode(true)
			stage.SetTestRunner(r)
		}
	})
	log := recordMouse(pad)

	done := make(chan struct{})
	go func() {
		stage.Tick()
		stage.Tick()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Tick did not return when a listener changed the runner")
	}
	if !stage.debug.Load() {
		t.Error("debug mode should be on")
	}
	if r.cursor != 1 || len(*log) != 1 {
		t.Errorf("cursor = %d, mouse events = %v; the runner should start on the next frame", r.cursor, *log)
	}
}

func TestSetDebugModeWhileTicking(t *testing.T) {
	stage, _, _ := newTestStage()
	stage.AddChild(NewDisplayObject("leaf"))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 100 {
			stage.SetDebugMode(i%2 == 0)
		}
	}()
	for range 100 {
		stage.Tick()
		stage.AddChild(NewDisplayObject("child"))
	}
	<-done
}

func TestDo(t *testing.T) {
	stage, _, _ := newTestStage()
	var ran bool
	stage.Do(func() { ran = true })
	if !ran {
		t.Error("Do should run fn")
	}
}

// --- Keyboard ---

func TestKeyTransitions(t *testing.T) {
	stage, _, _ := newTestStage()
	var events []string
	stage.AddEventListener(EventKeyDown, func(e Event) {
		ke := e.(*KeyboardEvent)
		if ke.KeyCode != KeySpace || !ke.Modifiers.Shift() {
			t.Errorf("event = %+v", ke)
		}
		events = append(events, "down")
	})
	stage.AddEventListener(EventKeyUp, func(Event) { events = append(events, "up") })

	if !stage.HandleKeyDown(KeySpace, ModShift) {
		t.Error("first press should dispatch")
	}
	if stage.HandleKeyDown(KeySpace, ModShift) {
		t.Error("key repeat should not dispatch")
	}
	if !stage.Keyboard().IsDown(KeySpace) || stage.Keyboard().IsUp(KeySpace) {
		t.Error("space should be held")
	}
	if !stage.HandleKeyUp(KeySpace, 0) || stage.HandleKeyUp(KeySpace, 0) {
		t.Error("only the first release should dispatch")
	}
	assertStrings(t, "events", events, "down", "up")
}

func TestReleaseAllKeys(t *testing.T) {
	stage, _, _ := newTestStage()
	var released []int
	stage.AddEventListener(EventKeyUp, func(e Event) { released = append(released, e.(*KeyboardEvent).KeyCode) })
	stage.HandleKeyDown(KeyRight, 0)
	stage.HandleKeyDown(KeyLeft, 0)
	if got := stage.Keyboard().Pressed(); len(got) != 2 || got[0] != KeyLeft {
		t.Errorf("Pressed = %v, want [37 39]", got)
	}

	stage.ReleaseAllKeys()
	if len(released) != 2 || released[0] != KeyLeft || released[1] != KeyRight {
		t.Errorf("released = %v, want [37 39]", released)
	}
	if len(stage.Keyboard().Pressed()) != 0 {
		t.Error("no key should be held")
	}
}
