// Package ebitenhost runs an arbor stage in an [Ebitengine] window.
//
// A Host is both the ebiten.Game and the stage's arbor.Ticker: ebiten calls
// Update at the stage's frame rate, the host translates mouse and keyboard
// state into stage input and then ticks the stage. Draw copies the stage's
// offscreen Surface to the screen.
//
//	cfg, err := ebitenhost.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = ebitenhost.Run(cfg, func(stage *arbor.Stage) error {
//		stage.AddChild(arbor.NewSprite("box"))
//		return nil
//	})
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost

import (
	"context"
	"image"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/arbor"
)

// Host adapts an arbor.Stage to ebiten.
type Host struct {
	cfg     Config
	stage   *arbor.Stage
	surface *Surface
	logger  *slog.Logger

	mu   sync.Mutex
	tick func()
	quit bool

	cursor  image.Point
	focused bool
	keys    []ebiten.Key
}

var (
	_ ebiten.Game  = (*Host)(nil)
	_ arbor.Ticker = (*Host)(nil)
)

// NewHost creates the surface and stage described by cfg. Extra options are
// applied after the ones derived from cfg.
func NewHost(cfg Config, opts ...arbor.Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Host{
		cfg:     cfg,
		surface: NewSurface(cfg.Width, cfg.Height),
		logger:  cfg.NewLogger(os.Stderr),
		focused: true,
	}
	base := []arbor.Option{
		arbor.WithTicker(h),
		arbor.WithFPS(cfg.FPS),
		arbor.WithLogger(h.logger),
		arbor.WithDebug(cfg.Debug),
		arbor.WithScreenshotDir(cfg.ScreenshotDir),
	}
	h.stage = arbor.NewStage(h.surface, append(base, opts...)...)
	return h, nil
}

// Stage returns the hosted stage.
func (h *Host) Stage() *arbor.Stage { return h.stage }

// Surface returns the offscreen canvas the stage draws on.
func (h *Host) Surface() *Surface { return h.surface }

// Start implements arbor.Ticker by setting ebiten's tick rate. Ticks are
// delivered from Update.
func (h *Host) Start(interval time.Duration, tick func()) {
	h.mu.Lock()
	h.tick = tick
	h.mu.Unlock()
	tps := int(math.Round(float64(time.Second) / float64(interval)))
	ebiten.SetTPS(max(tps, 1))
}

// Stop implements arbor.Ticker. Input is still delivered while stopped.
func (h *Host) Stop() {
	h.mu.Lock()
	h.tick = nil
	h.mu.Unlock()
}

// Quit ends the game loop after the current Update.
func (h *Host) Quit() {
	h.mu.Lock()
	h.quit = true
	h.mu.Unlock()
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.mu.Lock()
	tick, quit := h.tick, h.quit
	h.mu.Unlock()
	if quit {
		return ebiten.Termination
	}

	h.processFocus()
	mods := readModifiers()
	h.processMouse(mods)
	h.processKeys(mods)

	if tick != nil {
		tick()
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.DrawImage(h.surface.Image(), nil)
}

// Layout implements ebiten.Game. The stage keeps its configured size and
// ebiten scales it to the window.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.cfg.Width, h.cfg.Height
}

// processFocus releases held keys when the window loses focus, since the
// release events will never arrive.
func (h *Host) processFocus() {
	focused := ebiten.IsFocused()
	if h.focused && !focused {
		h.stage.ReleaseAllKeys()
	}
	h.focused = focused
}

func (h *Host) processMouse(mods arbor.KeyModifiers) {
	cursor := image.Pt(ebiten.CursorPosition())
	x, y := float64(cursor.X), float64(cursor.Y)
	if cursor != h.cursor {
		h.cursor = cursor
		h.stage.HandleMouse(arbor.EventMouseMove, x, y, arbor.MouseButtonLeft, mods)
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.native) {
			h.stage.HandleMouse(arbor.EventMouseDown, x, y, b.button, mods)
		}
		if inpututil.IsMouseButtonJustReleased(b.native) {
			h.stage.HandleMouse(arbor.EventMouseUp, x, y, b.button, mods)
			if b.button == arbor.MouseButtonLeft {
				h.stage.HandleMouse(arbor.EventClick, x, y, b.button, mods)
			}
		}
	}
}

func (h *Host) processKeys(mods arbor.KeyModifiers) {
	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		if code, ok := KeyCode(k); ok {
			h.stage.HandleKeyDown(code, mods)
		}
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		if code, ok := KeyCode(k); ok {
			h.stage.HandleKeyUp(code, mods)
		}
	}
}

// LoadLibrary loads lib from fsys, logging a failure before returning it.
func (h *Host) LoadLibrary(ctx context.Context, lib *arbor.Library, fsys fs.FS) error {
	start := time.Now()
	if err := lib.Load(ctx, fsys); err != nil {
		h.logger.Error("arbor: library load failed", "err", err)
		return err
	}
	h.logger.Debug("arbor: library loaded", "elapsed", time.Since(start))
	return nil
}

// Run opens a window described by cfg, calls setup with the stage, starts
// the frame loop and blocks until the window closes.
func Run(cfg Config, setup func(*arbor.Stage) error, opts ...arbor.Option) error {
	h, err := NewHost(cfg, opts...)
	if err != nil {
		return err
	}
	if setup != nil {
		if err := setup(h.stage); err != nil {
			return err
		}
	}
	return h.Run()
}

// Run starts the stage and the ebiten game loop. It blocks until the window
// closes or Quit is called.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	if h.cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	h.stage.Start()
	h.logger.Info("arbor: host started", "title", h.cfg.Title,
		"width", h.cfg.Width, "height", h.cfg.Height, "fps", h.stage.FPS())
	defer h.stage.Stop()

	// RunGame returns nil when Update returns ebiten.Termination.
	if err := ebiten.RunGame(h); err != nil {
		return err
	}
	h.logger.Info("arbor: host stopped", "frames", h.stage.Frame())
	return nil
}
