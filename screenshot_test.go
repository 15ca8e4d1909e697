package arbor

import (
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"after-click", "after-click"},
		{"frame 1.0", "frame_1.0"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
		{"héllo", "h_llo"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	surface := NewImageSurface(20, 10)
	stage := NewStage(surface, WithTicker(&ManualTicker{}), WithScreenshotDir(dir))
	stage.AddChild(fillSprite("box", 0, 0, 20, 10, red))

	stage.Screenshot("box frame")
	stage.Tick()

	matches, err := filepath.Glob(filepath.Join(dir, "*_box_frame.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("files = %v, want one screenshot", matches)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("size = %v, want 20x10", b)
	}
	r, g, _, a := img.At(5, 5).RGBA()
	if r != 0xffff || g != 0 || a != 0xffff {
		t.Errorf("pixel = %x %x %x, want opaque red", r, g, a)
	}
}

func TestScreenshotQueueIsFlushedOnce(t *testing.T) {
	dir := t.TempDir()
	stage := NewStage(NewImageSurface(4, 4), WithTicker(&ManualTicker{}), WithScreenshotDir(dir))
	stage.Screenshot("a")
	stage.Screenshot("b")
	stage.Tick()
	stage.Tick()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("files = %d, want 2", len(entries))
	}
}

func TestScreenshotWithoutSnapshotterWarns(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)
	dir := filepath.Join(t.TempDir(), "never")
	stage := NewStage(NewRecordingSurface(4, 4),
		WithTicker(&ManualTicker{}), WithLogger(logger), WithScreenshotDir(dir))
	stage.Screenshot("x")
	stage.Tick()

	if !strings.Contains(buf.String(), "cannot be read back") {
		t.Errorf("log = %q, want a warning", buf.String())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("no directory should be created")
	}
}
