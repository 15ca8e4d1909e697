package arbor

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled screenshot to be captured after the current
// or next frame's render. The PNG is written to ScreenshotDir with a
// timestamped filename. Requires a surface implementing Snapshotter; other
// surfaces log a warning and skip. Safe to call from listeners.
func (s *Stage) Screenshot(label string) {
	s.queueMu.Lock()
	s.screenshotQueue = append(s.screenshotQueue, label)
	s.queueMu.Unlock()
}

// flushScreenshots captures the rendered frame for every queued label and
// writes each as a PNG file. Called at the end of Tick.
func (s *Stage) flushScreenshots() {
	s.queueMu.Lock()
	labels := s.screenshotQueue
	s.screenshotQueue = nil
	s.queueMu.Unlock()
	if len(labels) == 0 {
		return
	}

	snap, ok := s.surface.(Snapshotter)
	if !ok {
		s.logger.Warn("arbor: screenshot: surface cannot be read back",
			"surface", fmt.Sprintf("%T", s.surface), "labels", len(labels))
		return
	}

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		s.logger.Error("arbor: screenshot: mkdir", "dir", s.ScreenshotDir, "err", err)
		return
	}

	img := toNRGBA(snap.Snapshot())
	stamp := time.Now().Format("20060102_150405")

	for _, label := range labels {
		safe := sanitizeLabel(label)
		path := filepath.Join(s.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, safe))
		if err := writePNG(path, img); err != nil {
			s.logger.Error("arbor: screenshot", "err", err)
			continue
		}
		s.logger.Debug("arbor: screenshot written", "path", path)
	}
}

// toNRGBA converts to straight alpha, which PNG stores.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
