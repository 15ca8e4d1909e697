package arbor

import (
	"testing"
	"time"
)

// steppedClock advances by step on every call.
type steppedClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppedClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestFPSMeterMeasuresFrameDelta(t *testing.T) {
	clock := &steppedClock{step: 20 * time.Millisecond}
	rec := NewRecordingSurface(100, 100)
	stage := NewStage(rec, WithTicker(&ManualTicker{}), WithClock(clock.Now))
	meter := NewFPSMeter("fps")
	stage.AddChild(meter.DisplayObject)

	if meter.MouseEnabled() {
		t.Error("the meter should ignore the mouse")
	}
	if b := meter.Bounds(); b != (Rectangle{0, 0, 72, 16}) {
		t.Errorf("Bounds = %v, want 72x16", b)
	}

	stage.Tick()
	if meter.FPS() != 0 {
		t.Errorf("FPS = %v after the first frame, want 0 (no delta yet)", meter.FPS())
	}
	stage.Tick()
	if meter.FPS() != 50 {
		t.Errorf("FPS = %v, want 50", meter.FPS())
	}

	// Faster frames only show up after the refresh interval.
	clock.step = 10 * time.Millisecond
	stage.Tick()
	if meter.FPS() != 50 {
		t.Errorf("FPS = %v before the refresh interval, want 50", meter.FPS())
	}
	for range 30 {
		stage.Tick()
	}
	if meter.FPS() != 100 {
		t.Errorf("FPS = %v, want 100", meter.FPS())
	}
}

func TestFPSMeterPaintsReadout(t *testing.T) {
	clock := &steppedClock{step: 25 * time.Millisecond}
	rec := NewRecordingSurface(100, 100)
	stage := NewStage(rec, WithTicker(&ManualTicker{}), WithClock(clock.Now))
	meter := NewFPSMeter("")
	meter.SetPosition(5, 5)
	stage.AddChild(meter.DisplayObject)

	stage.Tick()
	stage.Tick()
	stage.Tick()

	var text *DrawCommand
	for i, c := range rec.Commands() {
		if c.Op == "text" {
			text = &rec.Commands()[i]
		}
	}
	if text == nil {
		t.Fatalf("no text command in %v", rec.Ops())
	}
	if text.Text != "FPS 40" {
		t.Errorf("text = %q, want %q", text.Text, "FPS 40")
	}
	assertMatrix(t, "text transform", text.Transform, [6]float64{1, 0, 0, 1, 5, 5})
	assertStrings(t, "ops", rec.Ops(), "clear", "fillRect", "text")
}
