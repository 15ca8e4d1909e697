package arbor

import (
	"log/slog"
	"strings"
	"testing"
)

func TestDebugModeLogsFrameTimings(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelDebug)
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(&ManualTicker{}), WithLogger(logger))
	stage.AddChild(fillSprite("a", 0, 0, 1, 1, red))

	stage.Tick()
	if strings.Contains(buf.String(), "arbor: frame ") {
		t.Error("frame timings should only be logged in debug mode")
	}

	stage.SetDebugMode(true)
	stage.Tick()
	out := buf.String()
	for _, want := range []string{"arbor: frame", "frame=2", "painted=2", "render="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestDebugWarnsOnDeepTree(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(&ManualTicker{}),
		WithLogger(logger), WithDebug(true))

	parent := stage.DisplayObject
	for range debugMaxTreeDepth {
		parent = parent.AddChild(NewContainer(""))
	}
	if !strings.Contains(buf.String(), "deep display list") {
		t.Errorf("log = %q, want a depth warning", buf.String())
	}
}

func TestDebugWarnsOnWideContainer(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)
	stage := NewStage(NewRecordingSurface(10, 10), WithTicker(&ManualTicker{}),
		WithLogger(logger), WithDebug(true))
	for range debugMaxChildCount {
		stage.AddChild(NewDisplayObject(""))
	}
	if strings.Contains(buf.String(), "wide container") {
		t.Fatal("warned at the threshold")
	}
	stage.AddChild(NewDisplayObject(""))
	if !strings.Contains(buf.String(), "wide container") {
		t.Errorf("log = %q, want a width warning", buf.String())
	}
}
