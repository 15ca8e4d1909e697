package arbor

import (
	"fmt"
	"math"
	"time"
)

const fpsRefreshInterval = 300 * time.Millisecond

// FPSMeter is a display object that paints the measured frame rate. The
// reading is derived from the ENTER_FRAME delta and refreshed at most every
// 300ms so it stays legible.
type FPSMeter struct {
	*DisplayObject

	// Foreground and Background colors of the readout.
	Foreground Color
	Background Color

	fps       float64
	sinceLast time.Duration
	measured  bool
}

// NewFPSMeter creates a meter sized 72x16. It ignores the mouse.
func NewFPSMeter(name string) *FPSMeter {
	m := &FPSMeter{
		DisplayObject: NewDisplayObject(name),
		Foreground:    ColorWhite,
		Background:    Color{0, 0, 0, 0.5},
	}
	m.SetSize(72, 16)
	m.SetMouseEnabled(false)
	m.AddEventListener(EventEnterFrame, m.onFrame)
	m.AddEventListener(EventRender, m.onRender)
	return m
}

// FPS returns the last reading, 0 before the first measurement.
func (m *FPSMeter) FPS() float64 { return m.fps }

func (m *FPSMeter) onFrame(e Event) {
	fe, ok := e.(*FrameEvent)
	if !ok || fe.Delta <= 0 {
		return
	}
	m.sinceLast += fe.Delta
	if m.measured && m.sinceLast <= fpsRefreshInterval {
		return
	}
	m.fps = math.Round(1 / fe.Delta.Seconds())
	m.sinceLast = 0
	m.measured = true
}

func (m *FPSMeter) onRender(e Event) {
	re, ok := e.(*RenderEvent)
	if !ok {
		return
	}
	w, h := m.IntrinsicSize()
	re.Surface.FillRect(0, 0, w, h, m.Background)
	re.Surface.FillText(fmt.Sprintf("FPS %.0f", m.fps), 4, 12, m.Foreground)
}
