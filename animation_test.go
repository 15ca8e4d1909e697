package arbor

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	o := NewContainer("pos")
	o.SetPosition(10, 20)

	g := TweenPosition(o, 100, 200, 1.0, ease.Linear)

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	if math.Abs(o.X()-55) > 0.5 {
		t.Errorf("midway X = %f, want ~55", o.X())
	}
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(o.X()-100) > 0.5 || math.Abs(o.Y()-200) > 0.5 {
		t.Errorf("position = (%f, %f), want ~(100, 200)", o.X(), o.Y())
	}
	if g.Target() != o {
		t.Error("Target should be the animated object")
	}
}

func TestTweenScaleAndRotation(t *testing.T) {
	o := NewContainer("o")
	scale := TweenScale(o, 2.0, 3.0, 0.5, ease.Linear)
	spin := TweenRotation(o, 180, 0.5, ease.Linear)
	for range 2 {
		scale.Update(0.25)
		spin.Update(0.25)
	}
	if !scale.Done || !spin.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(o.ScaleX()-2) > 0.01 || math.Abs(o.ScaleY()-3) > 0.01 {
		t.Errorf("scale = (%f, %f), want ~(2, 3)", o.ScaleX(), o.ScaleY())
	}
	if math.Abs(o.Rotation()-180) > 0.01 {
		t.Errorf("Rotation = %f, want ~180", o.Rotation())
	}
}

func TestTweenAlphaClampsThroughSetter(t *testing.T) {
	o := NewContainer("alpha")
	g := TweenAlpha(o, -1, 1.0, ease.Linear)
	g.Update(1)
	if o.Alpha() != 0 {
		t.Errorf("Alpha = %f, want the setter's clamp to 0", o.Alpha())
	}
}

func TestTweenOnDoneFiresOnce(t *testing.T) {
	o := NewContainer("o")
	g := TweenAlpha(o, 0, 0.5, ease.Linear)
	calls := 0
	g.OnDone = func() { calls++ }
	g.Update(0.25)
	if calls != 0 {
		t.Fatal("OnDone fired early")
	}
	g.Update(0.5)
	g.Update(0.5)
	if calls != 1 {
		t.Errorf("OnDone calls = %d, want 1", calls)
	}
}

func TestAnimateFollowsFrameDelta(t *testing.T) {
	var now time.Time
	clock := func() time.Time {
		now = now.Add(100 * time.Millisecond)
		return now
	}
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(&ManualTicker{}), WithClock(clock))
	o := stage.AddChild(NewDisplayObject("o"))

	g := TweenPosition(o, 100, 0, 0.5, ease.Linear)
	Animate(g)
	if !o.HasEventListener(EventEnterFrame) {
		t.Fatal("Animate should listen for ENTER_FRAME")
	}

	// The first frame has no delta.
	stage.Tick()
	if o.X() != 0 {
		t.Errorf("X = %f after the first frame, want 0", o.X())
	}
	for range 6 {
		stage.Tick()
	}
	if !g.Done || math.Abs(o.X()-100) > 0.5 {
		t.Errorf("Done = %v, X = %f, want done at ~100", g.Done, o.X())
	}
	if o.HasEventListener(EventEnterFrame) {
		t.Error("Animate should unregister once done")
	}
}
